/*
Package shares implements the registry of revenue shares.

A share grants a recipient a fraction of every distribution. The whole set of
shares is always replaced at once and the percentages of a committed set
always sum to exactly one.
*/
package shares
