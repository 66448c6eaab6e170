/*
Package sigs verifies off-line signed payment and withdrawal
authorizations and guards against their replay.

A request is bound to one chain, one project and one serial number
before it is signed. The replay guard keeps two disjoint used-serial
namespaces, one for payments and one for withdrawals, so the same
serial number may appear once in each flow of every project.
*/
package sigs
