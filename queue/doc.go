/*
Package queue defines the tasks to be performed to grow a decision
tree, one per node pending development, as well as an interface for
a Queue to manage them.

It also provides an in-memory implementation of the Queue interface.
*/
package queue
