package main

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/frontend"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/podstore"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

// selfAlias names the pod under construction in key references
const selfAlias = "self"

// manifest describes a Main Pod as a list of operations over named
// signed pods:
//
//	pods:
//	  gov: {file: gov.json}
//	  pay: {cid: bafk...}
//	operations:
//	  - op: EqualFromEntries
//	    public: true
//	    args: [{key: gov.socialSecurityNumber}, {key: pay.socialSecurityNumber}]
//	  - op: LtFromEntries
//	    args: [{key: gov.dateOfBirth}, {value: 1169909388}]
type manifest struct {
	Pods       map[string]podSource `yaml:"pods"`
	Operations []manifestOperation  `yaml:"operations"`

	dir string
}

type podSource struct {
	File string `yaml:"file"`
	CID  string `yaml:"cid"`
}

type manifestOperation struct {
	Op     string        `yaml:"op"`
	Public bool          `yaml:"public"`
	Args   []manifestArg `yaml:"args"`
}

// manifestArg sets exactly one field. Ref is the index of an earlier
// operation whose statement is the argument.
type manifestArg struct {
	Key   string         `yaml:"key"`
	Value any            `yaml:"value"`
	Entry *manifestEntry `yaml:"entry"`
	Ref   *int           `yaml:"ref"`
}

type manifestEntry struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

func parseManifest(data []byte) (*manifest, error) {
	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("malformed manifest: %w", err)
	}
	if len(m.Operations) == 0 {
		return nil, fmt.Errorf("manifest has no operations")
	}
	if _, ok := m.Pods[selfAlias]; ok {
		return nil, fmt.Errorf("pod alias %q is reserved", selfAlias)
	}
	return &m, nil
}

// loadPods resolves every pod source. Store is opened only when a source
// names a content id.
func (m *manifest) loadPods(ctx context.Context, cfg utils.StoreConfig) (map[string]*signedpod.SignedPod, error) {
	var store *podstore.PodStore
	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()

	pods := make(map[string]*signedpod.SignedPod, len(m.Pods))
	for _, alias := range slices.Sorted(maps.Keys(m.Pods)) {
		src := m.Pods[alias]
		switch {
		case src.File != "" && src.CID != "":
			return nil, fmt.Errorf("pod %s: set file or cid, not both", alias)
		case src.File != "":
			path := src.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(m.dir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("pod %s: %w", alias, err)
			}
			pod, err := signedpod.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("pod %s: %w", alias, err)
			}
			pods[alias] = pod
		case src.CID != "":
			if store == nil {
				cas, err := podstore.Open(ctx, cfg)
				if err != nil {
					return nil, err
				}
				store = podstore.New(cas)
			}
			pod, err := store.GetString(ctx, src.CID)
			if err != nil {
				return nil, fmt.Errorf("pod %s: %w", alias, err)
			}
			pods[alias] = pod
		default:
			return nil, fmt.Errorf("pod %s: no file or cid", alias)
		}
	}
	return pods, nil
}

// apply replays the operations into b
func (m *manifest) apply(b *frontend.MainPodBuilder, pods map[string]*signedpod.SignedPod) error {
	for _, alias := range slices.Sorted(maps.Keys(pods)) {
		b.AddSignedPod(pods[alias])
	}

	results := make([]frontend.Statement, 0, len(m.Operations))
	for i, mo := range m.Operations {
		kind, ok := middleware.ParseOperation(mo.Op)
		if !ok {
			return fmt.Errorf("operation %d: unknown operation %q", i, mo.Op)
		}
		args := make([]any, len(mo.Args))
		for j, ma := range mo.Args {
			arg, err := ma.resolve(pods, results)
			if err != nil {
				return fmt.Errorf("operation %d (%s) arg %d: %w", i, mo.Op, j, err)
			}
			args[j] = arg
		}

		op := frontend.NewOperation(kind, args...)
		var (
			st  frontend.Statement
			err error
		)
		if mo.Public {
			st, err = b.AddPublicOperation(op)
		} else {
			st, err = b.AddOperation(op)
		}
		if err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, mo.Op, err)
		}
		results = append(results, st)
	}
	return nil
}

func (a manifestArg) resolve(pods map[string]*signedpod.SignedPod, results []frontend.Statement) (any, error) {
	set := 0
	for _, present := range []bool{a.Key != "", a.Value != nil, a.Entry != nil, a.Ref != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("set exactly one of key, value, entry or ref")
	}

	switch {
	case a.Key != "":
		alias, name, ok := strings.Cut(a.Key, ".")
		if !ok || name == "" {
			return nil, fmt.Errorf("key %q is not <pod>.<name>", a.Key)
		}
		if alias == selfAlias {
			return frontend.SelfKey(name), nil
		}
		pod, ok := pods[alias]
		if !ok {
			return nil, fmt.Errorf("unknown pod %q", alias)
		}
		return frontend.SignedKey(pod, name), nil
	case a.Value != nil:
		return values.FromJSON(a.Value)
	case a.Entry != nil:
		v, err := values.FromJSON(a.Entry.Value)
		if err != nil {
			return nil, err
		}
		return frontend.Entry{Name: a.Entry.Name, Value: v}, nil
	default:
		ref := *a.Ref
		if ref < 0 || ref >= len(results) {
			return nil, fmt.Errorf("ref %d is not an earlier operation", ref)
		}
		return results[ref], nil
	}
}
