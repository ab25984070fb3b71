// Package classify turns candidate hash strings into ranked identification
// results using a hashtype registry snapshot.
//
// A Classifier trims each input and evaluates it against every registry entry
// in catalog order, then grades the surviving candidates: a common format
// whose pattern no other entry shares is a high-confidence identification, a
// common format inside an ambiguity family or any uncommon format is medium,
// and a rare format is low. Candidates sort by confidence with catalog order
// breaking ties, and an input that matches nothing yields the single Unknown
// fallback instead of an error.
//
// Classification is a pure function of (registry, input): no state survives a
// call, batches classify every element independently, and ClassifyBatch fans
// work across goroutines while reassembling results in input order.
package classify
