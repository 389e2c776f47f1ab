/*
Package items keeps the ordered collection of short text items in a
store.Store. There are two strategies.

The blob strategy (Blob) keeps the whole list as one JSON record under the key
"list":

	{"value": ["first", "second", ...]}

Every mutation loads the record, changes the in-memory List, and writes the
whole record back. There is no version check, so two concurrent mutations
race and the last write wins.

The keyed strategy (Keyed) stores each item under its own key, the decimal
form of an unsigned integer. The order is recovered at read time by sorting
the keys numerically. New keys are one more than the largest key present, so
two concurrent appends may pick the same key and one value is lost.

The keys "list" and "accounts" are reserved records and are never item keys.

Both strategies satisfy the Store interface. Move is only offered by the blob
strategy (the Mover interface), and point lookup only by the keyed one
(the Getter interface).
*/
package items
