/*
Package gov implements project governance. Administrative operations
on a project are not executed directly but wrapped in proposals that
the project admins confirm. Once the number of confirmations reaches
the project threshold, any admin can execute the proposal and apply
the operation.
*/
package gov
