package cli

import (
	"io"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/config"
	"github.com/ytget/yt-toolkit/internal/model"
)

// TrimmerName is the program name shown in usage output
const TrimmerName = "yt-trimmer"

// Trimmer flag names
const (
	FlagDir   = "dir"
	FlagMerge = "unir"
)

// TrimOptions is the parsed trimmer command line
type TrimOptions struct {
	Job     model.TrimJob
	Verbose bool
	Version bool
}

// ParseTrimArgs parses the trimmer arguments: an input file followed by one
// or more ranges. Defaults come from settings. Help output is written to out.
func ParseTrimArgs(args []string, settings *config.Settings, out io.Writer) (*TrimOptions, error) {
	fs := newFlagSet(TrimmerName, TrimmerName+" <archivo> <inicio-fin>... [opciones]", out)
	baseName := fs.StringP(FlagOutput, "s", settings.TrimBaseName, "nombre base de los archivos de salida")
	outputDir := fs.StringP(FlagDir, "d", settings.TrimDir, "directorio de salida")
	merge := fs.BoolP(FlagMerge, "u", false, "unir los recortes en un solo archivo")
	overwrite := fs.Bool(FlagOverwrite, false, "reemplazar archivos existentes")
	verbose := fs.BoolP(FlagVerbose, "v", false, "mostrar registros de depuración")
	version := fs.Bool(FlagVersion, false, "mostrar la versión")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *version {
		return &TrimOptions{Version: true}, nil
	}

	if fs.NArg() < 2 {
		return nil, apperr.Usage("se esperaba un archivo y al menos un rango (inicio-fin)")
	}

	ranges, err := model.ParseRanges(fs.Args()[1:])
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUsage, err, "rango no válido")
	}

	job := model.TrimJob{
		InputPath:      fs.Arg(0),
		Ranges:         ranges,
		OutputBaseName: *baseName,
		OutputDir:      *outputDir,
		Merge:          *merge,
		Overwrite:      *overwrite,
	}
	if err := job.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindUsage, err, "argumentos no válidos")
	}
	if *outputDir == "" {
		return nil, apperr.Usage("--%s no puede estar vacío", FlagDir)
	}

	return &TrimOptions{Job: job, Verbose: *verbose}, nil
}
