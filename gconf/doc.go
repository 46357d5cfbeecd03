/*
Package gconf implements a configuration store intended to be used as a
singleton, in-database configuration of a package.

Each package stores at most one configuration record, under the
"_c:<package name>" key. The record is validated before it is written.
*/
package gconf
