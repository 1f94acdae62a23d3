// internal/app/commands.go
package app

import (
	"fmt"

	"segul/internal/cli"
	"segul/internal/ops"

	"segul-core/alphabet"
	"segul-core/seqio"
)

func (a *app) concat(argv []string) int {
	fs := cli.NewFlagSet("concat")
	opt, err := cli.ParseConcat(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	part, _ := ops.ParsePartFormat(opt.Part)
	res, err := ops.Concat(a.ctx, a.env(opt.Common), ops.ConcatOptions{
		Input:      ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		Output:     opt.Output,
		OutFormat:  opt.OutFormat,
		PartFormat: part,
		Codon:      opt.Codon,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Concatenated %d loci: %d taxa, %d sites -> %s\n",
		res.Loci, res.Ntax, res.Nchar, res.MatrixPath)
	if res.PartitionPath != "" {
		fmt.Fprintf(a.out, "Partition -> %s\n", res.PartitionPath)
	}
	return 0
}

func (a *app) convert(argv []string) int {
	fs := cli.NewFlagSet("convert")
	opt, err := cli.ParseConvert(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	n, err := ops.Convert(a.ctx, a.env(opt.Common), ops.ConvertOptions{
		Input:     ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		OutputDir: opt.Output,
		OutFormat: opt.OutFormat,
		Sort:      opt.Sort,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Converted %d files -> %s\n", n, opt.Output)
	return 0
}

func (a *app) filter(argv []string) int {
	fs := cli.NewFlagSet("filter")
	opt, err := cli.ParseFilter(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	fopt := ops.FilterOptions{
		Input:     ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		OutputDir: opt.Output,
		OutFormat: opt.OutFormat,
		Percent:   opt.Percent,
		NPercents: opt.NPercents,
		MinTaxa:   opt.MinTaxa,
		MinLen:    opt.MinLen,
		MaxLen:    opt.MaxLen,
		MinPIS:    opt.MinPIS,
		MaxPIS:    opt.MaxPIS,
		TaxonAll:  opt.Taxa,
		IDList:    opt.IDList,
	}
	if opt.Concat {
		part, _ := ops.ParsePartFormat(opt.Part)
		fopt.Concat = &ops.ConcatOptions{
			Input:      ops.Input{Format: opt.Format, Datatype: opt.Datatype},
			Output:     "concat" + opt.OutFormat.Extension(),
			OutFormat:  opt.OutFormat,
			PartFormat: part,
			Codon:      opt.Codon,
		}
	}
	n, err := ops.Filter(a.ctx, a.env(opt.Common), fopt)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Retained %d alignments -> %s\n", n, opt.Output)
	return 0
}

func (a *app) split(argv []string) int {
	fs := cli.NewFlagSet("split")
	opt, err := cli.ParseSplit(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	part, _ := ops.ParsePartFormat(opt.Part)
	n, err := ops.Split(a.ctx, a.env(opt.Common), ops.SplitOptions{
		Input:      ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		PartFile:   opt.PartFile,
		PartFormat: part,
		OutputDir:  opt.Output,
		Prefix:     opt.Prefix,
		OutFormat:  opt.OutFormat,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Wrote %d subsets -> %s\n", n, opt.Output)
	return 0
}

func (a *app) extract(argv []string, invert bool) int {
	name := "extract"
	if invert {
		name = "remove"
	}
	fs := cli.NewFlagSet(name)
	opt, err := cli.ParseExtract(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	var matcher *ops.Matcher
	switch {
	case opt.Regex != "":
		if matcher, err = ops.NewRegexMatcher(opt.Regex); err != nil {
			return a.usageError(fs, err)
		}
	case opt.IDFile != "":
		if matcher, err = ops.MatcherFromFile(opt.IDFile); err != nil {
			return a.fail(err)
		}
	default:
		matcher = ops.NewIDMatcher(opt.IDs)
	}
	n, err := ops.Extract(a.ctx, a.env(opt.Common), ops.ExtractOptions{
		Input:     ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		Matcher:   matcher,
		Invert:    invert,
		OutputDir: opt.Output,
		OutFormat: opt.OutFormat,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Wrote %d alignments -> %s\n", n, opt.Output)
	return 0
}

func (a *app) rename(argv []string) int {
	fs := cli.NewFlagSet("rename")
	opt, err := cli.ParseRename(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	var rn *ops.Renamer
	if opt.Table != "" {
		if rn, err = ops.NewTableRenamer(opt.Table); err != nil {
			return a.fail(err)
		}
	} else {
		removeRe := opt.RemoveRe
		removeAll := false
		if opt.RemoveReAll != "" {
			removeRe = opt.RemoveReAll
			removeAll = true
		}
		if rn, err = ops.NewEditRenamer(opt.Remove, removeRe, removeAll,
			opt.ReplaceFrom, opt.ReplaceTo, opt.ReplaceFromRe); err != nil {
			return a.usageError(fs, err)
		}
	}
	n, err := ops.Rename(a.ctx, a.env(opt.Common), ops.RenameOptions{
		Input:     ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		Renamer:   rn,
		OutputDir: opt.Output,
		OutFormat: opt.OutFormat,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Renamed ids in %d alignments -> %s\n", n, opt.Output)
	return 0
}

func (a *app) translate(argv []string) int {
	fs := cli.NewFlagSet("translate")
	opt, err := cli.ParseTranslate(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	n, err := ops.Translate(a.ctx, a.env(opt.Common), ops.TranslateOptions{
		Input:     ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		Table:     opt.Table,
		Frame:     opt.Frame,
		OutputDir: opt.Output,
		OutFormat: opt.OutFormat,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Translated %d alignments -> %s\n", n, opt.Output)
	return 0
}

func (a *app) summary(argv []string) int {
	fs := cli.NewFlagSet("summary")
	opt, err := cli.ParseSummary(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	env := a.env(opt.Common)
	mode, _ := ops.ParseReadMode(opt.Mode)

	if opt.Format == seqio.Fastq {
		perFile, total, err := ops.SummarizeReads(a.ctx, env, ops.ReadSummaryOptions{
			Files:     opt.Files,
			Mode:      mode,
			OutputDir: opt.Output,
		})
		if err != nil {
			return a.fail(err)
		}
		ops.PrintReadReport(a.out, perFile, total, mode)
		return 0
	}
	if opt.Datatype == alphabet.Ignore && opt.Format == seqio.Fasta {
		// contig census: raw FASTA with validation off
		perFile, total, err := ops.SummarizeContigs(a.ctx, env, ops.ContigSummaryOptions{Files: opt.Files})
		if err != nil {
			return a.fail(err)
		}
		ops.PrintContigReport(a.out, perFile, total)
		return 0
	}
	rep, err := ops.Summarize(a.ctx, env, ops.SummaryOptions{
		Input:     ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		OutputDir: opt.Output,
		Interval:  opt.Interval,
	})
	if err != nil {
		return a.fail(err)
	}
	if err := ops.PrintReport(a.out, rep); err != nil {
		return a.fail(err)
	}
	return 0
}

func (a *app) partition(argv []string) int {
	fs := cli.NewFlagSet("partition")
	opt, err := cli.ParsePartition(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	inPart, err := ops.ParsePartFormat(opt.InPart)
	if err != nil {
		return a.usageError(fs, err)
	}
	outPart, err := ops.ParsePartFormat(opt.Part)
	if err != nil {
		return a.usageError(fs, err)
	}
	datatype := "DNA"
	if opt.Datatype == alphabet.AminoAcid {
		datatype = "protein"
	}
	n, err := ops.ConvertPartitions(a.ctx, a.env(opt.Common), ops.PartitionConvertOptions{
		Files:     opt.Files,
		InFormat:  inPart,
		OutFormat: outPart,
		Datatype:  datatype,
		OutputDir: opt.Output,
		Codon:     opt.Codon,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Converted %d partition files -> %s\n", n, opt.Output)
	return 0
}

func (a *app) ids(argv []string) int {
	fs := cli.NewFlagSet("id")
	opt, err := cli.ParseID(fs, argv)
	if err != nil {
		return a.usageError(fs, err)
	}
	res, err := ops.CollectIDs(a.ctx, a.env(opt.Common), ops.IDOptions{
		Input:     ops.Input{Files: opt.Files, Format: opt.Format, Datatype: opt.Datatype},
		OutputDir: opt.Output,
		Map:       opt.Map,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Collected %d ids -> %s\n", len(res.IDs), res.IDPath)
	if res.MapPath != "" {
		fmt.Fprintf(a.out, "Presence map -> %s\n", res.MapPath)
	}
	return 0
}
