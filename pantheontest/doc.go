/*
Package pantheontest provides helpers for testing contracts and the
components they are built of.
*/
package pantheontest
