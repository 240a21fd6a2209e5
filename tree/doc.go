// Package tree implements the sparse, leaf-organized point tree.
//
// A PointTree is a collection of fixed-voxel-count leaves keyed by their
// spatial origin. Each leaf owns an attribute set and a cumulative offset
// table partitioning its points into voxels. Leaf state is published through
// an atomic pointer, so a compaction task can build a complete replacement
// and install it with a single swap.
//
// The LeafManager snapshots a tree's leaves and drives fork-join parallel
// iteration over contiguous leaf ranges.
package tree
