package ledger

import (
	"encoding/json"
	"strconv"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
)

// scripted is a contract used to exercise the ledger. It stores a single value
// and returns the messages it is asked to return.
type scripted struct{}

var _ pantheon.Contract = scripted{}

type scriptedMsg struct {
	Set      string            `json:"set,omitempty"`
	Fail     string            `json:"fail,omitempty"`
	Panic    bool              `json:"panic,omitempty"`
	Messages []pantheon.SubMsg `json:"messages,omitempty"`
	Data     []byte            `json:"data,omitempty"`
}

var scriptedKey = []byte("value")

func (scripted) Instantiate(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, raw []byte) (*pantheon.Response, error) {
	return scripted{}.Execute(ctx, deps, env, info, raw)
}

func (scripted) Execute(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, raw []byte) (*pantheon.Response, error) {
	var msg scriptedMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	if msg.Set != "" {
		if err := deps.Storage.Set(scriptedKey, []byte(msg.Set)); err != nil {
			return nil, err
		}
	}
	if msg.Panic {
		panic("scripted panic")
	}
	if msg.Fail != "" {
		return nil, errors.Wrap(errors.ErrContract, msg.Fail)
	}
	res := pantheon.NewResponse().
		AddSubMessages(msg.Messages...).
		AddAttribute("height", strconv.FormatInt(env.Block.Height, 10))
	res.Data = msg.Data
	return res, nil
}

func (scripted) Query(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, raw []byte) ([]byte, error) {
	return deps.Storage.Get(scriptedKey)
}

// Reply stores the reply under its id. A reply to a message with id 13
// fails.
func (scripted) Reply(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, reply pantheon.Reply) (*pantheon.Response, error) {
	if reply.ID == 13 {
		return nil, errors.Wrap(errors.ErrContract, "unlucky reply")
	}
	raw, err := json.Marshal(reply)
	if err != nil {
		return nil, err
	}
	if err := deps.Storage.Set(replyKey(reply.ID), raw); err != nil {
		return nil, err
	}
	res := pantheon.NewResponse()
	res.Data = []byte("reply " + strconv.FormatUint(reply.ID, 10))
	return res, nil
}

func replyKey(id uint64) []byte {
	return []byte("reply/" + strconv.FormatUint(id, 10))
}

func mustJSON(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
