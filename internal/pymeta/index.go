// Package pymeta looks up installed Python distribution metadata.
//
// The real index scans site-packages directories for *.dist-info entries,
// the on-disk form of importlib.metadata. The interface exists so the audit
// can run against a synthetic index in tests.
package pymeta

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Distribution describes one installed package.
type Distribution struct {
	Name     string
	Version  string
	Location string // directory the dist-info entry lives in
}

// Index resolves installed distributions by project name. Lookup accepts
// any spelling; implementations normalize per PEP 503.
type Index interface {
	Lookup(name string) (Distribution, bool)
}

var normalizePattern = regexp.MustCompile(`[-_.]+`)

// Normalize applies PEP 503 name normalization: runs of dot, dash and
// underscore collapse to a single dash, lowercased.
func Normalize(name string) string {
	return strings.ToLower(normalizePattern.ReplaceAllString(name, "-"))
}

// MapIndex is an in-memory Index for tests, keyed by any spelling.
type MapIndex map[string]Distribution

func (m MapIndex) Lookup(name string) (Distribution, bool) {
	for k, d := range m {
		if Normalize(k) == Normalize(name) {
			return d, true
		}
	}
	return Distribution{}, false
}

// DistInfoIndex is the Index backed by site-packages directories.
type DistInfoIndex struct {
	dists map[string]Distribution
}

// ScanSitePackages builds an index from the given directories, in order.
// Earlier directories win, mirroring sys.path precedence. Unreadable
// directories are skipped; an interpreter with no packages is still a
// valid (empty) index.
func ScanSitePackages(dirs []string) *DistInfoIndex {
	idx := &DistInfoIndex{dists: make(map[string]Distribution)}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
				continue
			}
			dist := readDistInfo(dir, entry.Name())
			if dist.Name == "" {
				continue
			}
			key := Normalize(dist.Name)
			if _, ok := idx.dists[key]; !ok {
				idx.dists[key] = dist
			}
		}
	}
	return idx
}

func (i *DistInfoIndex) Lookup(name string) (Distribution, bool) {
	d, ok := i.dists[Normalize(name)]
	return d, ok
}

// Len reports how many distributions the scan found.
func (i *DistInfoIndex) Len() int { return len(i.dists) }

// readDistInfo extracts name and version, preferring the METADATA file and
// falling back to the directory name ("name-version.dist-info").
func readDistInfo(dir, entry string) Distribution {
	dist := Distribution{Location: dir}
	dist.Name, dist.Version = parseMetadataFile(filepath.Join(dir, entry, "METADATA"))
	if dist.Name == "" || dist.Version == "" {
		name, version := splitDistInfoName(entry)
		if dist.Name == "" {
			dist.Name = name
		}
		if dist.Version == "" {
			dist.Version = version
		}
	}
	return dist
}

// parseMetadataFile reads the email-header preamble of a METADATA file.
func parseMetadataFile(path string) (name, version string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break // end of headers, body follows
		}
		if v, ok := strings.CutPrefix(line, "Name: "); ok {
			name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Version: "); ok {
			version = strings.TrimSpace(v)
		}
		if name != "" && version != "" {
			break
		}
	}
	return name, version
}

func splitDistInfoName(entry string) (name, version string) {
	base := strings.TrimSuffix(entry, ".dist-info")
	if i := strings.LastIndexByte(base, '-'); i > 0 {
		return base[:i], base[i+1:]
	}
	return base, ""
}
