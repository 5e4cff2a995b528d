// Command unistark-prover proves and verifies Fibonacci traces from the
// command line, writing the proof as a CBOR artifact.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/logger"
	vybiumunistark "github.com/vybium/vybium-uni-stark/pkg/vybium-uni-stark"
)

func main() {
	var (
		height  = flag.Int("height", 8, "trace height (power of 2, at least 2)")
		logup   = flag.Bool("logup", true, "include the LogUp auxiliary column")
		out     = flag.String("out", "proof.cbor", "output path for the proof artifact")
		verify  = flag.String("verify", "", "verify an existing proof artifact instead of proving")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if !*verbose {
		logger.Set(logger.Logger().Level(zerolog.InfoLevel))
	}
	log := logger.Logger().With().Str("component", "cli").Logger()

	result := vybiumunistark.FibonacciResult(*height)
	var air vybiumunistark.Air
	if *logup {
		air = vybiumunistark.NewFibonacciLogUpAir(result)
	} else {
		air = vybiumunistark.NewFibonacciAir(result)
	}
	params := vybiumunistark.DefaultParameters()
	publicValues := []vybiumunistark.FieldElement{result}

	if *verify != "" {
		if err := verifyArtifact(params, air, *verify, publicValues); err != nil {
			log.Fatal().Err(err).Msg("verification failed")
		}
		log.Info().Str("path", *verify).Msg("proof accepted")
		return
	}

	trace, err := vybiumunistark.FibonacciTrace(*height)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build trace")
	}

	proof, err := vybiumunistark.Prove(params, air, trace, publicValues)
	if err != nil {
		log.Fatal().Err(err).Msg("proving failed")
	}

	data, err := proof.Serialize()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to serialize proof")
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("failed to write proof artifact")
	}

	digest, err := proof.Digest()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fingerprint proof")
	}
	log.Info().
		Str("path", *out).
		Int("bytes", len(data)).
		Str("digest", hex.EncodeToString(digest[:8])).
		Msg("proof written")
}

func verifyArtifact(params vybiumunistark.Parameters, air vybiumunistark.Air, path string, publicValues []vybiumunistark.FieldElement) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read proof artifact: %w", err)
	}
	proof, err := vybiumunistark.DeserializeProof(data)
	if err != nil {
		return err
	}
	return vybiumunistark.Verify(params, air, proof, publicValues)
}
