// m17-coder turns payload bytes into an M17 baseband symbol stream.
//
// Stream mode reads 16-byte blocks from stdin and writes symbols to stdout
// until end of input; packet mode sends one CRC-terminated packet; BERT mode
// sends frames of the PRBS9 reference sequence.
package main

import (
	"bufio"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dbehnke/m17-nexus/pkg/config"
	"github.com/dbehnke/m17-nexus/pkg/logger"
	"github.com/dbehnke/m17-nexus/pkg/mcrypto"
	"github.com/dbehnke/m17-nexus/pkg/modem"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	format := flag.String("format", "float32", "Output symbol format: float32 or int8")
	sms := flag.String("sms", "", "Send a single SMS packet instead of streaming")
	bertFrames := flag.Int("bert", 0, "Send N BERT frames instead of streaming")
	aesKeyFile := flag.String("aes-key-file", "", "File holding the hex AES key")
	signKeyFile := flag.String("sign-key-file", "", "File holding the hex Ed25519 private key seed")
	scrambleSeed := flag.String("scramble-seed", "", "Hex scrambler seed, up to 6 digits")
	flag.Parse()

	log := logger.New(logger.Config{Level: "info", Format: "text"})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	coderCfg := cfg.CoderConfig()
	opts := []modem.CoderOption{modem.WithCoderLogger(log.WithComponent("coder"))}

	if coderCfg.Encryption == modem.EncrAES {
		key, err := readHexFile(*aesKeyFile)
		if err != nil {
			log.Error("Failed to load AES key", logger.Error(err))
			os.Exit(1)
		}
		cipher, err := mcrypto.NewAESCTR(key)
		if err != nil {
			log.Error("Failed to build cipher", logger.Error(err))
			os.Exit(1)
		}
		var iv [14]byte
		if _, err := rand.Read(iv[:]); err != nil {
			log.Error("Failed to generate IV", logger.Error(err))
			os.Exit(1)
		}
		opts = append(opts, modem.WithAES(cipher, iv))
	}

	if coderCfg.Encryption == modem.EncrScramble {
		seedHex := strings.TrimSpace(*scrambleSeed)
		if seedHex == "" {
			log.Error("Scrambler selected without -scramble-seed")
			os.Exit(1)
		}
		seed, err := parseSeed(seedHex)
		if err != nil {
			log.Error("Invalid scrambler seed", logger.Error(err))
			os.Exit(1)
		}
		opts = append(opts, modem.WithScrambler(modem.NewScrambler(seed)))
	}

	if coderCfg.Signed {
		seed, err := readHexFile(*signKeyFile)
		if err != nil {
			log.Error("Failed to load signing key", logger.Error(err))
			os.Exit(1)
		}
		if len(seed) != ed25519.SeedSize {
			log.Error("Signing key seed must be 32 bytes")
			os.Exit(1)
		}
		signer, err := mcrypto.NewEd25519Signer(ed25519.NewKeyFromSeed(seed))
		if err != nil {
			log.Error("Failed to build signer", logger.Error(err))
			os.Exit(1)
		}
		opts = append(opts, modem.WithSigner(signer))
	}

	coder, err := modem.NewCoder(coderCfg, opts...)
	if err != nil {
		log.Error("Failed to build coder", logger.Error(err))
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	emit := func(symbols []float32) error {
		return writeSymbols(out, symbols, *format)
	}

	switch {
	case *bertFrames > 0:
		symbols, err := coder.EncodeBERT(*bertFrames)
		if err == nil {
			err = emit(symbols)
		}
		if err != nil {
			log.Error("BERT transmission failed", logger.Error(err))
			os.Exit(1)
		}

	case *sms != "":
		payload := append([]byte{0x05}, []byte(*sms)...)
		payload = append(payload, 0x00)
		symbols, err := coder.EncodePacket(payload)
		if err == nil {
			err = emit(symbols)
		}
		if err != nil {
			log.Error("Packet transmission failed", logger.Error(err))
			os.Exit(1)
		}

	default:
		if err := runStream(coder, emit); err != nil {
			log.Error("Stream transmission failed", logger.Error(err))
			os.Exit(1)
		}
	}
}

// runStream reads 16-byte payload blocks from stdin until EOF, then closes
// the transmission.
func runStream(coder *modem.Coder, emit func([]float32) error) error {
	in := bufio.NewReader(os.Stdin)
	block := make([]byte, 16)

	for {
		n, err := io.ReadFull(in, block)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			// Zero-pad the final short block.
			for i := n; i < len(block); i++ {
				block[i] = 0
			}
			symbols, encErr := coder.Encode(block)
			if encErr != nil {
				return encErr
			}
			if err := emit(symbols); err != nil {
				return err
			}
			break
		}
		if err != nil {
			return err
		}

		symbols, err := coder.Encode(block)
		if err != nil {
			return err
		}
		if err := emit(symbols); err != nil {
			return err
		}
	}

	symbols, err := coder.Finish()
	if err != nil {
		return err
	}
	return emit(symbols)
}

func writeSymbols(w io.Writer, symbols []float32, format string) error {
	if strings.EqualFold(format, "int8") {
		buf := make([]byte, len(symbols))
		for i, s := range symbols {
			buf[i] = byte(int8(s))
		}
		_, err := w.Write(buf)
		return err
	}

	buf := make([]byte, 4*len(symbols))
	for i, s := range symbols {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	_, err := w.Write(buf)
	return err
}

// readHexFile loads a hex-encoded secret from a file. Key material is never
// echoed anywhere.
func readHexFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no key file given")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(strings.TrimSpace(string(raw)))
}

func parseSeed(s string) (uint32, error) {
	if len(s) > 6 {
		return 0, fmt.Errorf("seed must be at most 6 hex digits")
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return 0, err
	}
	var seed uint32
	for _, b := range raw {
		seed = seed<<8 | uint32(b)
	}
	return seed, nil
}
