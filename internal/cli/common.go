package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/ytget/yt-toolkit/internal/apperr"
)

// Shared flag names
const (
	FlagOutput    = "salida"
	FlagOverwrite = "sobrescribir"
	FlagVerbose   = "verbose"
	FlagVersion   = "version"
)

// IsHelp reports whether parsing stopped because help was requested
func IsHelp(err error) bool {
	return errors.Is(err, pflag.ErrHelp)
}

func newFlagSet(name, usage string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(out, "Uso: %s\n\nOpciones:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// parse runs fs.Parse and maps failures to usage errors
func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if IsHelp(err) {
			return err
		}
		return apperr.Wrap(apperr.KindUsage, err, "argumentos no válidos")
	}
	return nil
}
