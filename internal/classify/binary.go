package classify

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// executableSignatures are magic-byte prefixes of the executable formats that
// show up as build artifacts: ELF, Mach-O (thin and fat, both byte orders)
// and PE.
var executableSignatures = [][]byte{
	{0x7f, 'E', 'L', 'F'},
	{0xfe, 0xed, 0xfa, 0xce},
	{0xce, 0xfa, 0xed, 0xfe},
	{0xfe, 0xed, 0xfa, 0xcf},
	{0xcf, 0xfa, 0xed, 0xfe},
	{0xca, 0xfe, 0xba, 0xbe},
	{'M', 'Z'},
}

// sniffLen is how many leading bytes are needed to match any signature.
const sniffLen = 4

// IsExecutable reports whether buf starts with a known executable-format
// signature. It only inspects the buffer; callers decide where bytes come from.
func IsExecutable(buf []byte) bool {
	for _, sig := range executableSignatures {
		if bytes.HasPrefix(buf, sig) {
			return true
		}
	}
	return false
}

// DetectBinaries returns the subset of paths that are root-level,
// extension-less regular files under root whose content matches an executable
// signature. Unreadable or missing files are skipped.
func DetectBinaries(root string, paths []string) []string {
	var binaries []string
	for _, p := range paths {
		if strings.Contains(p, "/") || strings.Contains(p, ".") {
			continue
		}
		full := filepath.Join(root, p)
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		buf, err := readPrefix(full, sniffLen)
		if err != nil {
			continue
		}
		if IsExecutable(buf) {
			binaries = append(binaries, p)
		}
	}
	return binaries
}

func readPrefix(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if read > 0 {
		return buf[:read], nil
	}
	return nil, err
}
