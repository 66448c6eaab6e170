/*
Package project implements the custody tenants.

A project is created at the factory boundary by the configuration
owner. It carries the signer key that authorizes the user facing pay
and withdraw flows, the admin set that steers it through proposals,
and a pause flag that stops the user facing flows.

Every executed payment and withdrawal emits a canonical record tag
for external indexers. Admin pool operations are emitted on a
separate record stream.
*/
package project
