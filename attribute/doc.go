// Package attribute implements typed columnar storage for per-point data.
//
// An attribute Set is an ordered collection of typed arrays that all share a
// common length (the point count of the owning leaf). The Set's schema lives in
// a shared, read-mostly Descriptor which also maps named point groups to bits
// within packed group-flag arrays.
//
// Sets are replaced wholesale during compaction: a new Set of the surviving
// size is built from an existing one via NewSetFromExisting, populated with
// per-index typed copies, and then swapped in by the owning leaf.
package attribute
