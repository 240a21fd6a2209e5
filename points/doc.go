// Package points implements group-membership-driven point deletion.
//
// DeleteFromGroups removes every point that is a member of any of the named
// groups (or, inverted, every point that is a member of none of them), then
// compacts each affected leaf's columnar attribute storage and rebuilds its
// voxel offset table. Leaves are processed independently in parallel; the
// deleted groups are dropped from the shared descriptor once all leaves have
// been compacted.
package points
