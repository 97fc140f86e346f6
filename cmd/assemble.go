// padena: a parallel de-novo De Bruijn genome assembler.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/padena/blob/master/LICENSE.txt>.


package cmd

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/exascience/padena/assembler"
	"github.com/exascience/padena/fasta"
	"github.com/exascience/padena/internal"
	"github.com/exascience/padena/sequence"
)

// AssembleHelp is the help string for this command.
const AssembleHelp = "\nassemble parameters:\n" +
	"padena assemble fasta-file fasta-output-file\n" +
	"[--kmer-length nr]\n" +
	"[--dangling-threshold nr]\n" +
	"[--redundant-threshold nr]\n" +
	"[--erosion]\n" +
	"[--erosion-threshold nr]\n" +
	"[--low-coverage-removal]\n" +
	"[--coverage-threshold nr]\n" +
	"[--scaffold]\n" +
	"[--scaffold-redundancy nr]\n" +
	"[--scaffold-depth nr]\n" +
	"[--library name:mean:sd[,name:mean:sd]*]\n" +
	"[--default-library name]\n" +
	"[--alphabet [dna | rna]]\n" +
	"[--graph-dot file]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

// Assemble implements the padena assemble command.
func Assemble() error {
	var (
		kmerLength                        int
		danglingThreshold                 int
		redundantThreshold                int
		erosion                           bool
		erosionThreshold                  int
		lowCoverageRemoval                bool
		coverageThreshold                 float64
		scaffold                          bool
		scaffoldRedundancy, scaffoldDepth int
		libraries, defaultLibrary         string
		alphabetName                      string
		graphDot                          string
		nrOfThreads                       int
		timed                             bool
		profile, logPath                  string
	)

	var flags flag.FlagSet

	flags.IntVar(&kmerLength, "kmer-length", 0, "length of the k-mers, estimated from the read lengths if 0")
	flags.IntVar(&danglingThreshold, "dangling-threshold", 0, "maximum length of dangling links to remove, k+1 if 0")
	flags.IntVar(&redundantThreshold, "redundant-threshold", 0, "maximum length of redundant paths to remove, 3(k+1) if 0")
	flags.BoolVar(&erosion, "erosion", false, "erode low coverage graph ends")
	flags.IntVar(&erosionThreshold, "erosion-threshold", 0, "coverage below which graph ends are eroded, estimated if 0")
	flags.BoolVar(&lowCoverageRemoval, "low-coverage-removal", false, "remove low coverage contigs")
	flags.Float64Var(&coverageThreshold, "coverage-threshold", 0, "coverage below which contigs are removed, estimated if 0")
	flags.BoolVar(&scaffold, "scaffold", false, "build scaffolds from the contigs and the mate pairs among the reads")
	flags.IntVar(&scaffoldRedundancy, "scaffold-redundancy", 0, "number of mate pairs needed to link two contigs, 2 if 0")
	flags.IntVar(&scaffoldDepth, "scaffold-depth", 0, "maximum number of contigs between two linked contigs, 10 if 0")
	flags.StringVar(&libraries, "library", "", "additional clone libraries")
	flags.StringVar(&defaultLibrary, "default-library", "", "clone library of mate pairs named with /1 and /2")
	flags.StringVar(&alphabetName, "alphabet", "dna", "alphabet of the reads, dna or rna")
	flags.StringVar(&graphDot, "graph-dot", "", "write the corrected graph in DOT format to the specified file")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, AssembleHelp)

	input := getFilename(os.Args[2], AssembleHelp)
	output := getFilename(os.Args[3], AssembleHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", input) {
		sanityChecksFailed = true
	}
	if !checkCreate("", output) {
		sanityChecksFailed = true
	}
	if graphDot != "" && !checkCreate("--graph-dot", graphDot) {
		sanityChecksFailed = true
	}
	if profile != "" && !checkCreate("--profile", profile) {
		sanityChecksFailed = true
	}
	alphabet, err := sequence.ParseAlphabet(alphabetName)
	if err != nil || !alphabet.CanComplement() {
		sanityChecksFailed = true
		log.Println("Error: Invalid alphabet: ", alphabetName)
	}
	for _, check := range []struct {
		parameter string
		value     float64
	}{
		{"--kmer-length", float64(kmerLength)},
		{"--dangling-threshold", float64(danglingThreshold)},
		{"--redundant-threshold", float64(redundantThreshold)},
		{"--erosion-threshold", float64(erosionThreshold)},
		{"--coverage-threshold", coverageThreshold},
		{"--scaffold-redundancy", float64(scaffoldRedundancy)},
		{"--scaffold-depth", float64(scaffoldDepth)},
	} {
		if !checkNonNegative(check.parameter, check.value) {
			sanityChecksFailed = true
		}
	}
	lib, ok := parseLibraries(libraries)
	if !ok {
		sanityChecksFailed = true
	}
	if defaultLibrary != "" {
		if _, err := lib.Get(defaultLibrary); err != nil {
			sanityChecksFailed = true
			log.Println("Error: Unknown default library: ", defaultLibrary)
		}
	}
	if erosionThreshold > 0 && !erosion {
		log.Println("Warning: The --erosion-threshold optional flag is set without using --erosion. This parameter is ignored.")
	}
	if coverageThreshold > 0 && !lowCoverageRemoval {
		log.Println("Warning: The --coverage-threshold optional flag is set without using --low-coverage-removal. This parameter is ignored.")
	}
	if !scaffold && (libraries != "" || defaultLibrary != "" || scaffoldRedundancy > 0 || scaffoldDepth > 0) {
		log.Println("Warning: Scaffolding parameters are set without using --scaffold. These parameters are ignored.")
	}
	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, AssembleHelp)
		os.Exit(1)
	}

	// building options and output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " assemble ", input, " ", output)

	opts := assembler.Options{
		KmerLength:                   kmerLength,
		DanglingLinksThreshold:       danglingThreshold,
		RedundantPathLengthThreshold: redundantThreshold,
		Erosion:                      erosion,
		ErosionThreshold:             erosionThreshold,
		LowCoverageContigRemoval:     lowCoverageRemoval,
		ContigCoverageThreshold:      coverageThreshold,
		Scaffold:                     scaffold,
		ScaffoldRedundancy:           scaffoldRedundancy,
		ScaffoldDepth:                scaffoldDepth,
		Libraries:                    lib,
		DefaultLibrary:               defaultLibrary,
		Timed:                        timed,
	}

	if kmerLength > 0 {
		fmt.Fprint(&command, " --kmer-length ", kmerLength)
	}
	if danglingThreshold > 0 {
		fmt.Fprint(&command, " --dangling-threshold ", danglingThreshold)
	}
	if redundantThreshold > 0 {
		fmt.Fprint(&command, " --redundant-threshold ", redundantThreshold)
	}
	if erosion {
		fmt.Fprint(&command, " --erosion")
		if erosionThreshold > 0 {
			fmt.Fprint(&command, " --erosion-threshold ", erosionThreshold)
		}
	}
	if lowCoverageRemoval {
		fmt.Fprint(&command, " --low-coverage-removal")
		if coverageThreshold > 0 {
			fmt.Fprint(&command, " --coverage-threshold ", coverageThreshold)
		}
	}
	if scaffold {
		fmt.Fprint(&command, " --scaffold")
		if scaffoldRedundancy > 0 {
			fmt.Fprint(&command, " --scaffold-redundancy ", scaffoldRedundancy)
		}
		if scaffoldDepth > 0 {
			fmt.Fprint(&command, " --scaffold-depth ", scaffoldDepth)
		}
		if libraries != "" {
			fmt.Fprint(&command, " --library ", libraries)
		}
		if defaultLibrary != "" {
			fmt.Fprint(&command, " --default-library ", defaultLibrary)
		}
	}
	fmt.Fprint(&command, " --alphabet ", alphabet)
	if graphDot != "" {
		fmt.Fprint(&command, " --graph-dot ", graphDot)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	fmt.Fprintln(os.Stderr, "Executing command:\n", command.String())

	// executing command

	var reads []*sequence.Read
	timedRun(timed, profile, "Reading reads.", 1, func() {
		reads, err = fasta.ReadReads(input, alphabet)
	})
	if err != nil {
		return err
	}
	log.Printf("Read %v sequences from %v", len(reads), input)

	if graphDot != "" {
		f := internal.FileCreate(graphDot)
		defer internal.Close(f)
		w := bufio.NewWriter(f)
		defer func() {
			if err := w.Flush(); err != nil {
				log.Panic(err)
			}
		}()
		opts.Dot = w
	}

	var asm *assembler.Assembly
	timedRun(timed, profile, "Assembling.", 2, func() {
		asm, err = assembler.Assemble(reads, opts)
	})
	if err != nil {
		return err
	}

	result := asm.Contigs
	if scaffold {
		result = asm.Scaffolds
	}
	timedRun(timed, profile, "Writing sequences.", 3, func() {
		err = fasta.WriteSequences(output, result)
	})
	if err != nil {
		return err
	}
	log.Printf("Run %v: wrote %v sequences to %v", asm.RunID, len(result), output)
	return nil
}
