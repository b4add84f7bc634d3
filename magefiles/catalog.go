//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups targets that drive the CLI against the local catalog.
type Catalog mg.Namespace

// Ingest builds the CLI and loads catalog/seed into the catalog.
func (Catalog) Ingest() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "catalog", "ingest")
}

// Stats prints a catalog summary.
func (Catalog) Stats() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "catalog", "stats")
}

// Demo ingests the seed catalog and ranks it for a sample data science query.
func (Catalog) Demo() error {
	mg.SerialDeps(Catalog.Ingest)
	return sh.RunV(binPath(), "rank",
		"--skills", "python,statistics",
		"--interests", "machine learning",
		"--career-goal", "data scientist",
		"--limit", "5",
	)
}

func binPath() string {
	return "./" + binDir + "/" + binName
}
