//go:build mage
// +build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Format runs gofmt on all Go files.
func Format() error {
	fmt.Println("Running gofmt...")
	return sh.RunV("gofmt", "-w", ".")
}

// Vet runs go vet on all packages.
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.RunV("go", "vet", "./...")
}

// Test runs all tests.
func Test() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Build builds the module and any cmd/ binaries for the native target.
func Build() error {
	fmt.Println("Building native packages...")
	return sh.RunV("go", "build", "./...")
}

// PreCommit runs format, vet, test, and build in order.
func PreCommit() error {
	fmt.Println("Running pre-commit checks...")
	mg.Deps(Format)
	mg.Deps(Vet)
	mg.Deps(Test)
	mg.Deps(Build)
	fmt.Println("all pre-commit checks passed")
	return nil
}

// CI runs the same checks as PreCommit.
func CI() error {
	fmt.Println("Running CI checks...")
	return PreCommit()
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	if err := sh.Run("sh", "-c", "rm -f *.test"); err != nil {
		fmt.Printf("warning: failed to clean: %v\n", err)
	}
	return nil
}

// Default target runs PreCommit.
var Default = PreCommit
