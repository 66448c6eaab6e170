/*
Package app assembles the custody engine. It provides the message
router, the decorator chain builder and the processor that executes
transactions against a committed key value store.
*/
package app
