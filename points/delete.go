package points

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/pointgrid"
	"github.com/hupe1980/pointgrid/attribute"
	"github.com/hupe1980/pointgrid/tree"
)

// DeleteFromGroups deletes points that are members of any of the named groups
// and drops those groups from the tree's descriptor. With invert enabled,
// points belonging to none of the groups are deleted instead, and the group
// definitions are kept.
//
// Requested names absent from the descriptor are ignored; if none are
// present, the tree is left untouched. Leaves are compacted independently in
// parallel. On error the parallel phase is aborted: already-compacted leaves
// keep their compacted state, remaining leaves are untouched, and no groups
// are dropped.
func DeleteFromGroups(ctx context.Context, pt *tree.PointTree, groups []string, invert bool, optFns ...func(*Options)) error {
	opts := Options{Logger: pointgrid.NoopLogger()}
	for _, optFn := range optFns {
		optFn(&opts)
	}

	if pt.Empty() {
		return nil
	}

	// Determine which of the requested groups exist, and early exit if none
	// are present in the tree.
	available := pt.Descriptor().Intersect(groups)
	if len(available) == 0 {
		return nil
	}

	// The compaction keeps exactly the points the filter selects. Deleting
	// members therefore excludes the groups; deleting non-members (invert)
	// includes them.
	var filter *MultiGroupFilter
	if invert {
		filter = NewMultiGroupFilter(available, nil)
	} else {
		filter = NewMultiGroupFilter(nil, available)
	}

	op := &deleteGroupsOp{filter: filter}
	m := tree.NewLeafManager(pt)

	err := m.ForEachRange(ctx, op.processRange, func(o *tree.ForEachOptions) {
		o.MaxParallelism = opts.MaxParallelism
		o.Resources = opts.Resources
	})
	opts.Logger.LogDeleteGroups(ctx, available, invert, int(op.removed.Load()), err)
	if err != nil {
		return err
	}

	// Drop the now-empty groups (unless invert). The parallel phase has
	// joined; the descriptor is mutated sequentially.
	if !invert {
		pt.Descriptor().DropGroups(available...)
	}
	return nil
}

// DeleteFromGroup deletes points that are members of the named group. It is
// equivalent to DeleteFromGroups with a single-element list.
func DeleteFromGroup(ctx context.Context, pt *tree.PointTree, group string, invert bool, optFns ...func(*Options)) error {
	return DeleteFromGroups(ctx, pt, []string{group}, invert, optFns...)
}

// deleteGroupsOp compacts leaves against a shared read-only filter. The only
// cross-task state is the removed-points counter.
type deleteGroupsOp struct {
	filter  *MultiGroupFilter
	removed atomic.Int64
}

func (op *deleteGroupsOp) processRange(leaves []*tree.Leaf) error {
	for _, leaf := range leaves {
		if err := op.processLeaf(leaf); err != nil {
			return fmt.Errorf("points: leaf %s: %w", leaf.Origin(), err)
		}
	}
	return nil
}

func (op *deleteGroupsOp) processLeaf(leaf *tree.Leaf) error {
	attrs := leaf.Attributes()

	// early-exit if the leaf has no points
	size := attrs.Len()
	if size == 0 {
		return nil
	}

	filter, err := op.filter.Bind(attrs)
	if err != nil {
		return err
	}

	newSize := 0
	for i := 0; i < size; i++ {
		if filter.Matches(i) {
			newSize++
		}
	}

	// if all points are being deleted, clear the leaf attributes
	if newSize == 0 {
		leaf.ClearAttributes()
		op.removed.Add(int64(size))
		return nil
	}

	// Build the replacement set, copying surviving points in voxel order
	// through a single monotone cursor. A fully-kept leaf is rebuilt too;
	// there is no in-place fast path.
	newAttrs := attribute.NewSetFromExisting(attrs, newSize)
	arrayCount := attrs.ArrayCount()
	endOffsets := make([]uint32, 0, leaf.VoxelCount())

	cursor := 0
	for v := 0; v < leaf.VoxelCount(); v++ {
		start, end := leaf.VoxelRange(v)
		for i := start; i < end; i++ {
			if !filter.Matches(i) {
				continue
			}
			for a := 0; a < arrayCount; a++ {
				if err := newAttrs.Array(a).Set(cursor, attrs.Array(a), i); err != nil {
					return fmt.Errorf("copy array %d: %w", a, err)
				}
			}
			cursor++
		}
		endOffsets = append(endOffsets, uint32(cursor))
	}

	if err := leaf.ReplaceAttributes(newAttrs, endOffsets); err != nil {
		return err
	}
	op.removed.Add(int64(size - newSize))
	return nil
}
