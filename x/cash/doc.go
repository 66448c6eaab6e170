/*
Package cash is the token substrate of the custody engine.

It keeps one wallet per address, a sorted set of coins per wallet.
The Controller moves funds between wallets and is the safe-transfer
collaborator of the rest of the engine: Move tolerates tokens that
burn a transfer tax and reports the amount actually received, while
MoveExact fails on any shortfall.
*/
package cash
