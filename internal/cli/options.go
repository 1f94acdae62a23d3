// internal/cli/options.go
package cli

import (
	"errors"
	"flag"

	"segul/internal/ops"
)

// ConcatOptions are the parsed concat flags.
type ConcatOptions struct {
	Common
	Part  string
	Codon bool
}

// ParseConcat parses the concat subcommand.
func ParseConcat(fs *flag.FlagSet, argv []string) (ConcatOptions, error) {
	var opt ConcatOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-concat/concat")
	fs.StringVar(&opt.Part, "p", "nexus", "partition format: nexus | charset | raxml (shorthand)")
	fs.StringVar(&opt.Part, "part", "nexus", "partition format: nexus | charset | raxml")
	fs.BoolVar(&opt.Codon, "codon", false, "emit codon-position subsets per locus")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if err := raw.resolve(&opt.Common); err != nil {
		return opt, err
	}
	if _, err := ops.ParsePartFormat(opt.Part); err != nil {
		return opt, err
	}
	return opt, nil
}

// ConvertOptions are the parsed convert flags.
type ConvertOptions struct {
	Common
	Sort bool
}

// ParseConvert parses the convert subcommand.
func ParseConvert(fs *flag.FlagSet, argv []string) (ConvertOptions, error) {
	var opt ConvertOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-convert")
	fs.BoolVar(&opt.Sort, "sort", false, "order ids alphanumerically before writing")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	return opt, raw.resolve(&opt.Common)
}

// FilterOptions are the parsed filter flags.
type FilterOptions struct {
	Common
	Percent   float64
	NPercents []float64
	MinTaxa   int
	MinLen    int
	MaxLen    int
	MinPIS    int
	MaxPIS    int
	Taxa      []string
	IDList    []string
	Concat    bool
	Part      string
	Codon     bool
}

// ParseFilter parses the filter subcommand.
func ParseFilter(fs *flag.FlagSet, argv []string) (FilterOptions, error) {
	var opt FilterOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-filter")
	var npercent floatSlice
	var taxa, idList stringSlice
	fs.Float64Var(&opt.Percent, "percent", 0, "minimum taxon completeness as a fraction")
	fs.Var(&npercent, "npercent", "repeatable completeness threshold; one output dir per value")
	fs.IntVar(&opt.MinTaxa, "min-taxa", 0, "minimum taxon count")
	fs.IntVar(&opt.MinLen, "min-len", 0, "minimum alignment length")
	fs.IntVar(&opt.MaxLen, "max-len", 0, "maximum alignment length")
	fs.IntVar(&opt.MinPIS, "min-pinf", -1, "minimum parsimony-informative sites (-1 = off)")
	fs.IntVar(&opt.MaxPIS, "max-pinf", -1, "maximum parsimony-informative sites (-1 = off)")
	fs.Var(&taxa, "taxon-all", "taxon id that must be present, repeatable")
	fs.Var(&idList, "ids", "locus stem to keep, repeatable")
	fs.BoolVar(&opt.Concat, "concat", false, "concatenate surviving alignments")
	fs.StringVar(&opt.Part, "p", "nexus", "partition format for --concat (shorthand)")
	fs.StringVar(&opt.Part, "part", "nexus", "partition format for --concat")
	fs.BoolVar(&opt.Codon, "codon", false, "codon partition subsets for --concat")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	opt.NPercents = npercent
	opt.Taxa = taxa
	opt.IDList = idList
	if err := raw.resolve(&opt.Common); err != nil {
		return opt, err
	}
	if opt.Percent == 0 && len(opt.NPercents) == 0 && opt.MinTaxa == 0 && opt.MinLen == 0 &&
		opt.MaxLen == 0 && opt.MinPIS < 0 && opt.MaxPIS < 0 && len(opt.Taxa) == 0 && len(opt.IDList) == 0 {
		return opt, errors.New("filter needs at least one predicate")
	}
	if opt.Percent < 0 || opt.Percent > 1 {
		return opt, errors.New("--percent must be in (0,1]")
	}
	return opt, nil
}

// SplitOptions are the parsed split flags.
type SplitOptions struct {
	Common
	PartFile string
	Part     string
}

// ParseSplit parses the split subcommand.
func ParseSplit(fs *flag.FlagSet, argv []string) (SplitOptions, error) {
	var opt SplitOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-split")
	fs.StringVar(&opt.PartFile, "partition", "", "standalone partition file (default: embedded sets block)")
	fs.StringVar(&opt.Part, "p", "nexus", "partition file format: nexus | raxml (shorthand)")
	fs.StringVar(&opt.Part, "part", "nexus", "partition file format: nexus | raxml")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if err := raw.resolve(&opt.Common); err != nil {
		return opt, err
	}
	if len(opt.Files) != 1 {
		return opt, errors.New("split takes exactly one input matrix")
	}
	return opt, nil
}

// ExtractOptions are the parsed extract/remove flags.
type ExtractOptions struct {
	Common
	IDs    []string
	IDFile string
	Regex  string
}

// ParseExtract parses the extract and remove subcommands (they share flags).
func ParseExtract(fs *flag.FlagSet, argv []string) (ExtractOptions, error) {
	var opt ExtractOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-extract")
	var ids stringSlice
	fs.Var(&ids, "id", "taxon id to select, repeatable")
	fs.StringVar(&opt.IDFile, "id-file", "", "file with one taxon id per line")
	fs.StringVar(&opt.Regex, "re", "", "regular expression selecting taxon ids")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	opt.IDs = ids
	if err := raw.resolve(&opt.Common); err != nil {
		return opt, err
	}
	modes := 0
	for _, set := range []bool{len(opt.IDs) > 0, opt.IDFile != "", opt.Regex != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return opt, errors.New("provide exactly one of --id, --id-file, --re")
	}
	return opt, nil
}

// RenameOptions are the parsed rename flags.
type RenameOptions struct {
	Common
	Table         string
	Remove        string
	RemoveRe      string
	RemoveReAll   string
	ReplaceFrom   string
	ReplaceTo     string
	ReplaceFromRe string
}

// ParseRename parses the rename subcommand.
func ParseRename(fs *flag.FlagSet, argv []string) (RenameOptions, error) {
	var opt RenameOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-rename")
	fs.StringVar(&opt.Table, "names", "", "CSV/TSV replacement table <original>,<new>")
	fs.StringVar(&opt.Remove, "remove", "", "substring to delete from ids")
	fs.StringVar(&opt.RemoveRe, "remove-re", "", "regex whose first match is deleted")
	fs.StringVar(&opt.RemoveReAll, "remove-re-all", "", "regex whose every match is deleted")
	fs.StringVar(&opt.ReplaceFrom, "replace-from", "", "substring to replace (with --replace-to)")
	fs.StringVar(&opt.ReplaceTo, "replace-to", "", "replacement text")
	fs.StringVar(&opt.ReplaceFromRe, "replace-from-re", "", "regex to replace (with --replace-to)")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if err := raw.resolve(&opt.Common); err != nil {
		return opt, err
	}
	modes := 0
	for _, set := range []bool{
		opt.Table != "", opt.Remove != "", opt.RemoveRe != "", opt.RemoveReAll != "",
		opt.ReplaceFrom != "", opt.ReplaceFromRe != "",
	} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return opt, errors.New("provide exactly one rename mode")
	}
	if (opt.ReplaceFrom != "" || opt.ReplaceFromRe != "") && opt.ReplaceTo == "" {
		return opt, errors.New("--replace-from needs --replace-to")
	}
	return opt, nil
}

// TranslateOptions are the parsed translate flags.
type TranslateOptions struct {
	Common
	Table int
	Frame int
}

// ParseTranslate parses the translate subcommand.
func ParseTranslate(fs *flag.FlagSet, argv []string) (TranslateOptions, error) {
	var opt TranslateOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-translate")
	fs.IntVar(&opt.Table, "table", 1, "NCBI translation table id")
	fs.IntVar(&opt.Frame, "frame", 1, "reading frame: 1 | 2 | 3")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	return opt, raw.resolve(&opt.Common)
}

// SummaryOptions are the parsed summary flags.
type SummaryOptions struct {
	Common
	Interval int
	Mode     string // read summary depth: minimal | default | complete
}

// ParseSummary parses the summary subcommand.
func ParseSummary(fs *flag.FlagSet, argv []string) (SummaryOptions, error) {
	var opt SummaryOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-summary")
	fs.IntVar(&opt.Interval, "interval", 5, "completeness ladder step: 1 | 2 | 5 | 10")
	fs.StringVar(&opt.Mode, "mode", "default", "read summary depth: minimal | default | complete")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if err := raw.resolve(&opt.Common); err != nil {
		return opt, err
	}
	switch opt.Interval {
	case 1, 2, 5, 10:
	default:
		return opt, errors.New("--interval must be 1, 2, 5, or 10")
	}
	if _, err := ops.ParseReadMode(opt.Mode); err != nil {
		return opt, err
	}
	return opt, nil
}

// PartitionOptions are the parsed partition flags.
type PartitionOptions struct {
	Common
	Part   string // output syntax
	InPart string // input syntax
	Codon  bool
}

// ParsePartition parses the partition subcommand.
func ParsePartition(fs *flag.FlagSet, argv []string) (PartitionOptions, error) {
	var opt PartitionOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-partition")
	fs.StringVar(&opt.Part, "p", "nexus", "output partition format: nexus | raxml (shorthand)")
	fs.StringVar(&opt.Part, "part", "nexus", "output partition format: nexus | raxml")
	fs.StringVar(&opt.InPart, "from", "raxml", "input partition format: nexus | raxml")
	fs.BoolVar(&opt.Codon, "codon", false, "merge codon-position triples")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	// partition files are not sequence files; skip the extension filter
	return opt, raw.resolvePlain(&opt.Common)
}

// IDOptions are the parsed id flags.
type IDOptions struct {
	Common
	Map bool
}

// ParseID parses the id subcommand.
func ParseID(fs *flag.FlagSet, argv []string) (IDOptions, error) {
	var opt IDOptions
	raw := registerCommon(fs, &opt.Common, "SEGUL-id")
	fs.BoolVar(&opt.Map, "map", false, "also write the id-by-locus presence map")
	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	return opt, raw.resolve(&opt.Common)
}
