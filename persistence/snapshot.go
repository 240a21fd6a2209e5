// Package persistence implements binary snapshots of point trees.
//
// A snapshot is a fixed uncompressed header followed by a body holding the
// attribute descriptor and every leaf's origin, offset table, and raw column
// data. The body can be compressed with zstd or lz4 and always ends with a
// CRC32 of its uncompressed content. Snapshots never mutate the tree being
// saved.
package persistence

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/pointgrid"
	"github.com/hupe1980/pointgrid/attribute"
	"github.com/hupe1980/pointgrid/resource"
	"github.com/hupe1980/pointgrid/tree"
)

// Options configures Save and Load.
type Options struct {
	// Compression selects the body codec for Save. Load reads the codec from
	// the header and ignores this field.
	Compression Compression

	// Resources optionally rate-limits the underlying stream.
	Resources *resource.Controller

	// Logger receives structured operation logs. Defaults to a no-op logger.
	Logger *pointgrid.Logger
}

// WithCompression selects the snapshot body codec.
func WithCompression(c Compression) func(*Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithResourceController attaches a shared resource controller.
func WithResourceController(rc *resource.Controller) func(*Options) {
	return func(o *Options) {
		o.Resources = rc
	}
}

// WithLogger sets the operation logger.
func WithLogger(l *pointgrid.Logger) func(*Options) {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Save writes a snapshot of the tree to w.
func Save(ctx context.Context, w io.Writer, pt *tree.PointTree, optFns ...func(*Options)) (err error) {
	opts := Options{Logger: pointgrid.NoopLogger()}
	for _, optFn := range optFns {
		optFn(&opts)
	}

	leaves := pt.Leaves()
	defer func() {
		opts.Logger.LogSnapshot(ctx, "save", len(leaves), err)
	}()

	var out io.Writer = w
	if opts.Resources != nil {
		out = resource.NewRateLimitedWriter(ctx, w, opts.Resources)
	}

	header := fileHeader{
		Magic:     MagicNumber,
		Version:   Version,
		Codec:     uint8(opts.Compression),
		LeafCount: uint32(len(leaves)),
	}
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return err
	}

	// Wrap the body in the selected codec.
	body := out
	var closeBody func() error
	switch opts.Compression {
	case CompressionNone:
	case CompressionZstd:
		enc, zerr := zstd.NewWriter(out)
		if zerr != nil {
			return fmt.Errorf("persistence: create zstd writer: %w", zerr)
		}
		body = enc
		closeBody = enc.Close
	case CompressionLZ4:
		lw := lz4.NewWriter(out)
		body = lw
		closeBody = lw.Close
	default:
		return ErrInvalidCompression
	}

	crc := crc32.NewIEEE()
	mw := io.MultiWriter(body, crc)

	if err := writeDescriptor(mw, pt.Descriptor()); err != nil {
		return err
	}
	for _, leaf := range leaves {
		if err := writeLeaf(mw, leaf); err != nil {
			return err
		}
	}

	// The checksum trails the body inside the compressed stream.
	if err := binary.Write(body, binary.LittleEndian, crc.Sum32()); err != nil {
		return err
	}
	if closeBody != nil {
		if err := closeBody(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a snapshot from r and rebuilds the tree.
func Load(ctx context.Context, r io.Reader, optFns ...func(*Options)) (pt *tree.PointTree, err error) {
	opts := Options{Logger: pointgrid.NoopLogger()}
	for _, optFn := range optFns {
		optFn(&opts)
	}

	var leafCount int
	defer func() {
		opts.Logger.LogSnapshot(ctx, "load", leafCount, err)
	}()

	var in io.Reader = r
	if opts.Resources != nil {
		in = resource.NewRateLimitedReader(ctx, r, opts.Resources)
	}

	var header fileHeader
	if err := binary.Read(in, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version {
		return nil, ErrInvalidVersion
	}

	body := in
	switch Compression(header.Codec) {
	case CompressionNone:
	case CompressionZstd:
		dec, zerr := zstd.NewReader(in)
		if zerr != nil {
			return nil, fmt.Errorf("persistence: create zstd reader: %w", zerr)
		}
		defer dec.Close()
		body = dec
	case CompressionLZ4:
		body = lz4.NewReader(in)
	default:
		return nil, ErrInvalidCompression
	}

	crc := crc32.NewIEEE()
	tr := io.TeeReader(body, crc)

	desc, err := readDescriptor(tr)
	if err != nil {
		return nil, err
	}
	pt = tree.New(desc)

	for i := 0; i < int(header.LeafCount); i++ {
		leaf, lerr := readLeaf(tr, desc)
		if lerr != nil {
			return nil, fmt.Errorf("persistence: leaf %d: %w", i, lerr)
		}
		if aerr := pt.AddLeaf(leaf); aerr != nil {
			return nil, aerr
		}
	}
	leafCount = pt.LeafCount()

	// Capture the digest before consuming the stored checksum, which is not
	// part of the checksummed body.
	sum := crc.Sum32()
	var stored uint32
	if err := binary.Read(body, binary.LittleEndian, &stored); err != nil {
		return nil, err
	}
	if sum != stored {
		return nil, ErrChecksumMismatch
	}
	return pt, nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xffff {
		return errors.New("persistence: string too long")
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeDescriptor(w io.Writer, desc *attribute.Descriptor) error {
	fields := desc.Fields()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := writeString(w, f.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(f.Type)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(f.Width)); err != nil {
			return err
		}
	}

	groups := desc.GroupOffsets()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(groups))); err != nil {
		return err
	}
	// Iterate names in sorted order so snapshots are deterministic.
	for _, name := range desc.GroupNames() {
		if err := writeString(w, name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, groups[name]); err != nil {
			return err
		}
	}
	return nil
}

func readDescriptor(r io.Reader) (*attribute.Descriptor, error) {
	var fieldCount uint32
	if err := binary.Read(r, binary.LittleEndian, &fieldCount); err != nil {
		return nil, err
	}
	fields := make([]attribute.Field, 0, fieldCount)
	for i := uint32(0); i < fieldCount; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		var typ uint8
		if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
			return nil, err
		}
		var width uint16
		if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
			return nil, err
		}
		fields = append(fields, attribute.Field{Name: name, Type: attribute.Type(typ), Width: int(width)})
	}

	var groupCount uint32
	if err := binary.Read(r, binary.LittleEndian, &groupCount); err != nil {
		return nil, err
	}
	groups := make(map[string]uint16, groupCount)
	for i := uint32(0); i < groupCount; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		var offset uint16
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return nil, err
		}
		groups[name] = offset
	}

	return attribute.RestoreDescriptor(fields, groups)
}

func writeLeaf(w io.Writer, leaf *tree.Leaf) error {
	origin := leaf.Origin()
	if err := binary.Write(w, binary.LittleEndian, [3]int32{origin.X, origin.Y, origin.Z}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(leaf.VoxelCount())); err != nil {
		return err
	}

	attrs := leaf.Attributes()
	if err := binary.Write(w, binary.LittleEndian, uint32(attrs.Len())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, leaf.Offsets()); err != nil {
		return err
	}

	for i := 0; i < attrs.ArrayCount(); i++ {
		if err := writeArray(w, attrs.Array(i)); err != nil {
			return fmt.Errorf("array %d: %w", i, err)
		}
	}
	return nil
}

func readLeaf(r io.Reader, desc *attribute.Descriptor) (*tree.Leaf, error) {
	var origin [3]int32
	if err := binary.Read(r, binary.LittleEndian, &origin); err != nil {
		return nil, err
	}
	var voxelCount, pointCount uint32
	if err := binary.Read(r, binary.LittleEndian, &voxelCount); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &pointCount); err != nil {
		return nil, err
	}
	if voxelCount == 0 {
		return nil, errors.New("zero voxel count")
	}

	offsets := make([]uint32, voxelCount)
	if err := binary.Read(r, binary.LittleEndian, offsets); err != nil {
		return nil, err
	}

	set := attribute.NewSet(desc, int(pointCount))
	for i := 0; i < set.ArrayCount(); i++ {
		if err := readArray(r, set.Array(i)); err != nil {
			return nil, fmt.Errorf("array %d: %w", i, err)
		}
	}

	return tree.NewLeaf(tree.Coord{X: origin[0], Y: origin[1], Z: origin[2]}, int(voxelCount), offsets, set)
}

func writeArray(w io.Writer, a attribute.Array) error {
	switch arr := a.(type) {
	case *attribute.Float32Array:
		return binary.Write(w, binary.LittleEndian, arr.Raw())
	case *attribute.Int32Array:
		return binary.Write(w, binary.LittleEndian, arr.Raw())
	case *attribute.Int64Array:
		return binary.Write(w, binary.LittleEndian, arr.Raw())
	case *attribute.GroupArray:
		return binary.Write(w, binary.LittleEndian, arr.Raw())
	default:
		return fmt.Errorf("unsupported array type %s", a.Type())
	}
}

func readArray(r io.Reader, a attribute.Array) error {
	switch arr := a.(type) {
	case *attribute.Float32Array:
		return binary.Read(r, binary.LittleEndian, arr.Raw())
	case *attribute.Int32Array:
		return binary.Read(r, binary.LittleEndian, arr.Raw())
	case *attribute.Int64Array:
		return binary.Read(r, binary.LittleEndian, arr.Raw())
	case *attribute.GroupArray:
		return binary.Read(r, binary.LittleEndian, arr.Raw())
	default:
		return fmt.Errorf("unsupported array type %s", a.Type())
	}
}
