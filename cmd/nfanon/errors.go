package main

import "errors"

var errNoFilesInDir = errors.New("nfanon: no files found in directory")
