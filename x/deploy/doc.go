/*
Package deploy instantiates child contracts on behalf of a contract.

Two strategies are provided. Deterministic computes the address of the child
before it exists, so all messages wiring the child are emitted at once.
ReplyTracked learns the address from the reply delivered after the
instantiation and wires the child only then.

Both strategies hand the rewards metadata of the child to the deploying
contract and the child administration to a human admin.
*/
package deploy
