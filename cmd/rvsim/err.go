package main

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	ErrStateRegister = errors.New(f("unknown register"))
)
