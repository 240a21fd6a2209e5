// Package pointgrid provides a sparse, leaf-organized point-attribute store
// with group-membership-driven deletion.
//
// Points live in fixed-capacity spatial leaves, partitioned into voxels by
// cumulative offset tables, with per-point data held in typed columnar
// attribute arrays. Named boolean groups are packed as bits into per-point
// bitmask attributes.
//
// # Deleting by group
//
//	desc, _ := attribute.NewDescriptor(fields, "scratch")
//	pt := tree.New(desc)
//	// ... populate leaves ...
//	err := points.DeleteFromGroup(ctx, pt, "scratch", false)
//
// Deletion compacts every affected leaf in parallel: surviving points keep
// their voxel assignment and relative order, offset tables are rebuilt, and
// the deleted groups are dropped from the shared descriptor. With invert
// enabled, points outside the groups are deleted instead and the group
// definitions are kept.
//
// # Supporting packages
//
//   - attribute: typed columnar arrays, descriptors, group handles
//   - tree: leaves, point tree, parallel leaf manager
//   - points: group filters and the deletion/compaction core
//   - index: roaring-bitmap group membership queries
//   - persistence: compressed binary tree snapshots
//   - resource: worker and I/O limits shared across background work
package pointgrid
