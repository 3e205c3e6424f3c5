// Package main provides the devtok tokenizer CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/devtok-ml/devtok/tokenizer"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("devtok %s\n", version)
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "devtok: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("devtok - byte-level BPE tokenizer")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  encode [-merges M.json] [-vocab V.json] [-encoding NAME] TEXT")
	fmt.Println("  decode [-merges M.json] [-vocab V.json] [-encoding NAME] IDS")
	fmt.Println("  version    Show version")
}

// newTokenizer builds the tokenizer selected by the common flags: a
// tiktoken encoding when -encoding is set, otherwise BPE artifacts. With
// only -merges, the vocabulary is derived from the merge rules.
func newTokenizer(merges, vocab, encoding string) (tokenizer.Tokenizer, error) {
	if encoding != "" {
		return tokenizer.NewTikToken(encoding)
	}
	if merges == "" {
		return nil, fmt.Errorf("either -merges or -encoding is required")
	}
	if vocab == "" {
		table, err := tokenizer.LoadMerges(merges)
		if err != nil {
			return nil, err
		}
		derived, err := tokenizer.DeriveVocab(table)
		if err != nil {
			return nil, err
		}
		return tokenizer.NewBPE(table, derived), nil
	}
	return tokenizer.LoadFromFiles(merges, vocab)
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	merges := fs.String("merges", "", "path to merges.json")
	vocab := fs.String("vocab", "", "path to vocab.json")
	encoding := fs.String("encoding", "", "tiktoken encoding name (e.g. cl100k_base)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tok, err := newTokenizer(*merges, *vocab, *encoding)
	if err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")
	ids, err := tok.Encode(text)
	if err != nil {
		return err
	}
	fmt.Println(tokenizer.FormatTokenIDs(ids))
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	merges := fs.String("merges", "", "path to merges.json")
	vocab := fs.String("vocab", "", "path to vocab.json")
	encoding := fs.String("encoding", "", "tiktoken encoding name (e.g. cl100k_base)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tok, err := newTokenizer(*merges, *vocab, *encoding)
	if err != nil {
		return err
	}

	ids := tokenizer.ParseTokenIDs(strings.Join(fs.Args(), ","))
	text, err := tok.Decode(ids)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
