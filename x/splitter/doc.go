/*
Package splitter implements the revenue splitter contract.

The contract keeps a set of shares that always sum to one, pays out its
rewards to them and can instantiate child contracts whose rewards are
collected by the splitter. All mutations are reserved to the admin and are
disabled forever once the contract is locked.

Messages are JSON encoded, using snake case names:

  instantiate   {"admin": "...", "mutable": true, "shares": [{"recipient": "...", "percentage": "0.5"}]}
  execute       {"update_shares": {"shares": [...]}}
                {"add_custom_contract": {"code_id": 1, "msg": "<base64>"}}
                {"update_custom_contract_reward_metadata": {"address": "..."}}
                {"lock_contract": {}}
                {"withdraw_rewards": {}}
                {"distribute_native_tokens": {}}
  query         {"config": {}}
                {"share": {"recipient": "..."}}
                {"shares": {"start_after": "...", "limit": 10}}
                {"profile": {}}
                {"contract_version": {}}
*/
package splitter
