/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// ranscat is a thin CLI around the cramrans package: it reads a whole
// file or stdin into memory, runs one compress/decompress call, and
// writes the result to stdout or a file. It is not a CRAM container
// reader — no record model, no format negotiation — it exists to give
// the codec's flags a command-line surface.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/flanglet/cram-rans"
)

func main() {
	var verbose bool
	var output string

	rootCmd := &cobra.Command{
		Use:   "ranscat",
		Short: "Compress/decompress raw byte buffers with the CRAM rANS entropy codec",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")

	var variant string
	var order int
	var n32 bool
	var pack bool
	var rle bool
	var noSize bool

	compressCmd := &cobra.Command{
		Use:   "compress [file]",
		Short: "Compress a file (or stdin) into a cramrans frame",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}

			log.Debug().Int("bytes", len(input)).Str("variant", variant).Msg("read input")

			var out []byte

			switch variant {
			case "4x8":
				out, err = cramrans.Compress4x8(input, order)
			case "nx16":
				params := cramrans.Nx16Params{
					Order:  order,
					N32:    n32,
					Pack:   pack,
					RLE:    rle,
					NoSize: noSize,
				}
				out, err = cramrans.CompressNx16(input, params)
			default:
				return fmt.Errorf("unknown variant %q: want 4x8 or nx16", variant)
			}

			if err != nil {
				return fmt.Errorf("compress: %w", err)
			}

			stats := cramrans.CollectStats(input, out)
			log.Info().
				Int("raw", stats.RawSize).
				Int("compressed", stats.CompressedSize).
				Int("alphabet", stats.AlphabetSize).
				Float64("ratio", stats.Ratio()).
				Msg("compressed")

			return writeOutput(output, out)
		},
	}
	compressCmd.Flags().StringVar(&variant, "variant", "nx16", "Wire variant: 4x8 or nx16")
	compressCmd.Flags().IntVar(&order, "order", 0, "Context order: 0 or 1")
	compressCmd.Flags().BoolVar(&n32, "n32", false, "Nx16 only: interleave 32 streams instead of 4")
	compressCmd.Flags().BoolVar(&pack, "pack", false, "Nx16 only: apply the PACK transform first")
	compressCmd.Flags().BoolVar(&rle, "rle", false, "Nx16 only: apply the RLE transform first")
	compressCmd.Flags().BoolVar(&noSize, "no-size", false, "Nx16 only: omit the raw size (caller must track it)")

	var rawSize int
	var decVariant string

	decompressCmd := &cobra.Command{
		Use:   "decompress [file]",
		Short: "Decompress a cramrans frame (variant auto-detected unless ambiguous)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}

			v := cramrans.DetectVariant(input)
			log.Debug().Str("detected", v.String()).Int("bytes", len(input)).Msg("read frame")

			var out []byte

			switch v {
			case cramrans.Variant4x8:
				out, err = cramrans.Uncompress4x8(input)
			case cramrans.VariantNx16:
				if rawSize > 0 {
					out, err = cramrans.UncompressNx16(input, rawSize)
				} else {
					out, err = cramrans.UncompressNx16(input)
				}
			case cramrans.VariantAmbiguous:
				if decVariant == "" {
					return fmt.Errorf("frame's leading byte is ambiguous between 4x8 and Nx16: pass --variant explicitly")
				}
				if decVariant == "4x8" {
					out, err = cramrans.Uncompress4x8(input)
				} else {
					out, err = cramrans.UncompressNx16(input)
				}
			default:
				return fmt.Errorf("unrecognized frame")
			}

			if err != nil {
				return fmt.Errorf("decompress: %w", err)
			}

			log.Info().Int("bytes", len(out)).Msg("decompressed")
			return writeOutput(output, out)
		},
	}
	decompressCmd.Flags().StringVar(&decVariant, "variant", "", "Force variant when the leading byte is ambiguous: 4x8 or nx16")
	decompressCmd.Flags().IntVar(&rawSize, "raw-size", 0, "Nx16 NOSZ frames only: the original size")

	rootCmd.AddCommand(compressCmd, decompressCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("ranscat failed")
		os.Exit(1)
	}
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(args[0])
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
