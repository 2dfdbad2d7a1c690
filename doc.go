// Package rsdk extracts RSDK data packs and recovers file names from
// candidate name lists.
//
// An RSDK pack set is a SQLite index database next to numbered data packs
// (Data001.rsdk, Data002.rsdk, ...). The index stores, for each entry, the
// MD5 of its lower-cased original path, its pack id, its offset and its size;
// it does not store the path itself. [Extractor] streams the index in pack
// order, reads every payload, names it from a dictionary of candidate paths
// when a hash matches, and otherwise writes it under MISSING/ with an
// extension inferred from its magic bytes.
//
// # Quick Start
//
//	f, err := os.Create("out.txt")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	x, err := rsdk.New(
//	    rsdk.WithReportWriter(io.MultiWriter(os.Stdout, f)),
//	    rsdk.WithPackNames("packs.txt"),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := x.Run(ctx, "Data.db", "files.txt")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Summary())
//
// # Report
//
// Every processed entry produces a line on the report writer, followed at
// the end by the unused dictionary names, the file names guessed from gzip
// headers and a summary line. See [Report].
package rsdk
