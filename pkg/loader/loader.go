package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hrctools/hrcpresolve/pkg/api"
	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"sigs.k8s.io/yaml"
)

// headerLines is the number of lines following the four counts which carry no
// information for the presolver.
const headerLines = 5

// Source is a loaded instance together with a digest of its raw bytes.
type Source struct {
	Name        string
	Instance    *api.Instance
	Fingerprint string
}

// Load reads an instance from path, "-" meaning stdin. Compressed inputs are
// unpacked transparently; .yaml, .yml and .json files are decoded as
// api.Instance, everything else is parsed as the line based text format.
func Load(ctx context.Context, path string) (*Source, error) {
	var in io.Reader
	name := path
	if path == "-" || path == "" {
		in = os.Stdin
		name = "stdin"
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open instance %s: %v", path, err)
		}
		defer f.Close()
		in = f
	}

	data, compression, err := readAll(ctx, name, in)
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256(data)
	src := &Source{Name: name, Fingerprint: hex.EncodeToString(sum[:])}

	switch strings.ToLower(filepath.Ext(trimSuffixFold(name, compression))) {
	case ".yaml", ".yml", ".json":
		src.Instance, err = ParseYAML(data)
	default:
		src.Instance, err = ParseText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse instance %s: %w", name, err)
	}
	logrus.Infof("Loaded instance %s: %d residents, %d couples, %d hospitals, %d edges.", name, src.Instance.Residents, src.Instance.Couples, src.Instance.Hospitals, src.Instance.Edges())
	return src, nil
}

// readAll returns the decompressed content of in together with the file
// extension of the detected compression, empty for plain input.
func readAll(ctx context.Context, name string, in io.Reader) ([]byte, string, error) {
	format, stream, err := archives.Identify(ctx, name, in)
	if err != nil && !errors.Is(err, archives.NoMatch) {
		return nil, "", fmt.Errorf("failed to identify format of %s: %v", name, err)
	}
	compression := ""
	if decompressor, ok := format.(archives.Decompressor); ok && err == nil {
		compression = format.Extension()
		logrus.Debugf("decompressing %s as %s", name, compression)
		rc, err := decompressor.OpenReader(stream)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decompress %s: %v", name, err)
		}
		defer rc.Close()
		stream = rc
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %v", name, err)
	}
	return data, compression, nil
}

func trimSuffixFold(name, suffix string) string {
	if len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
		return name[:len(name)-len(suffix)]
	}
	return name
}

func ParseYAML(data []byte) (*api.Instance, error) {
	instance := &api.Instance{}
	if err := yaml.UnmarshalStrict(data, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// ParseText reads the line based format: resident, hospital, couple and post
// counts, five ignored lines, one line "<id> <hospitals...>" per resident and
// one line "<id> <capacity> <residents...>" per hospital. Blank lines are
// skipped everywhere.
func ParseText(r io.Reader) (*api.Instance, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 4 {
		return nil, fmt.Errorf("expected at least 4 header lines, got %d", len(lines))
	}

	counts := make([]int, 4)
	for i := range counts {
		n, err := strconv.Atoi(lines[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", i+1, err)
		}
		counts[i] = n
	}
	in := &api.Instance{
		Residents: counts[0],
		Hospitals: counts[1],
		Couples:   counts[2],
		Posts:     counts[3],
	}
	if in.Residents < 0 || in.Hospitals < 0 {
		return nil, fmt.Errorf("negative resident or hospital count")
	}

	body := lines[min(len(lines), 4+headerLines):]
	if len(body) < in.Residents+in.Hospitals {
		return nil, fmt.Errorf("expected %d resident and %d hospital lines, got %d lines", in.Residents, in.Hospitals, len(body))
	}

	for i, line := range body[:in.Residents] {
		fields, err := atoiFields(line)
		if err != nil {
			return nil, fmt.Errorf("resident line %d: %v", i+1, err)
		}
		if len(fields) < 1 {
			return nil, fmt.Errorf("resident line %d is empty", i+1)
		}
		in.ResidentPrefs = append(in.ResidentPrefs, fields[1:])
	}
	for i, line := range body[in.Residents : in.Residents+in.Hospitals] {
		fields, err := atoiFields(line)
		if err != nil {
			return nil, fmt.Errorf("hospital line %d: %v", i+1, err)
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("hospital line %d lacks a capacity", i+1)
		}
		in.Capacities = append(in.Capacities, fields[1])
		in.HospitalPrefs = append(in.HospitalPrefs, fields[2:])
	}
	return in, nil
}

func atoiFields(line string) ([]int, error) {
	fields := strings.Fields(line)
	values := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
