/*
Package ledger tracks the two pools of every project: the payment
balance fed by user payments, and the withdrawal balance that user
withdrawals are paid from.

Pools are pure accounting figures. The actual funds sit in the cash
wallet of the project address; EmergencyWithdraw is the only
operation that reconciles the two by sweeping whatever the wallet
really holds.
*/
package ledger
