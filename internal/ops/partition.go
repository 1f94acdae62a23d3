// internal/ops/partition.go
package ops

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"segul-core/partition"
)

// PartitionConvertOptions configures standalone partition conversion.
type PartitionConvertOptions struct {
	Files     []string
	InFormat  PartFormat
	OutFormat PartFormat
	Datatype  string // default datatype for RaXML output
	OutputDir string
	Codon     bool // force codon-subset merging
}

// ConvertPartitions rewrites partition files between the RaXML and NEXUS
// syntaxes. Codon triples merge when asked, or when the input evidently
// consists of complete grouped triples.
func ConvertPartitions(ctx context.Context, env Env, opt PartitionConvertOptions) (int, error) {
	if opt.OutFormat == PartCharset {
		return 0, fmt.Errorf("standalone conversion targets nexus or raxml; charset embeds in a data file")
	}
	written := 0
	for _, file := range opt.Files {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}
		entries, err := ReadPartitionFile(file, opt.InFormat)
		if err != nil {
			return written, err
		}
		partition.NormalizeNames(entries)
		if opt.Codon || partition.LooksGrouped(entries) {
			merged := partition.MergeCodonSubsets(entries)
			if len(merged) < len(entries) {
				env.warnf("%s: merged %d codon subsets into %d entries", file, len(entries), len(merged))
			}
			entries = merged
		}
		if err := partition.Validate(entries, 0); err != nil {
			return written, fmt.Errorf("%s: %v", file, err)
		}
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		ext := ".txt"
		if opt.OutFormat == PartNexus {
			ext = ".nex"
		}
		path := filepath.Join(opt.OutputDir, base+ext)
		if err := writePartitionFile(path, entries, opt.OutFormat, opt.Datatype, env); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
