// Package vpath provides structural paths into value trees and the
// reference syntax used by formulas.
//
// A Path is a list of segments from a tree root. It renders either as a
// kinded path ("orders[0].items[2].price") or as a JSON pointer
// ("/orders/0/items/2/price").
//
// A Ref adds an anchor to a kinded path:
//
//	"price"          // from the formula's enclosing object
//	"../discount"    // one object level up, skipping array containers
//	"/settings.rate" // from the tree root
//	"items[*].price" // every item's price
package vpath
