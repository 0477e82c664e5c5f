package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProver is not a real test. It stands in for a prover binary
// when POD2_CLI_HELPER is set.
func TestHelperProver(t *testing.T) {
	if os.Getenv("POD2_CLI_HELPER") != "1" {
		return
	}
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lines := 0
	for scanner.Scan() {
		lines++
	}
	fmt.Printf(`{"proof":{"protocol":"helper","lines":%d},"publicSignals":["7"]}`+"\n", lines)
	os.Exit(0)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type workspace struct {
	dir    string
	config string
	gov    string
	pay    string
}

func setup(t *testing.T, payStubSSN string) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{dir: dir}

	ws.config = writeFile(t, dir, "config.yaml", fmt.Sprintf(`
log:
  level: error
store:
  driver: sqlite
  dsn: %s
prover:
  backend: exec
  command: %s
  args: ["-test.run=TestHelperProver"]
  proving_key: main.zkey
`, filepath.Join(dir, "pods.db"), os.Args[0]))

	for _, name := range []string{"gov", "employer"} {
		_, err := run(t, "-c", ws.config, "keygen", filepath.Join(dir, name+".key"))
		require.NoError(t, err)
	}

	govEntries := writeFile(t, dir, "gov-entries.json",
		`{"idNumber": "4242424242", "dateOfBirth": 1169909384, "socialSecurityNumber": "G2121210"}`)
	payEntries := writeFile(t, dir, "pay-entries.json",
		fmt.Sprintf(`{"socialSecurityNumber": %q, "startDate": 1706367566}`, payStubSSN))

	ws.gov = filepath.Join(dir, "gov.json")
	ws.pay = filepath.Join(dir, "pay.json")
	_, err := run(t, "-c", ws.config, "sign", "-k", filepath.Join(dir, "gov.key"), "-o", ws.gov, govEntries)
	require.NoError(t, err)
	_, err = run(t, "-c", ws.config, "sign", "-k", filepath.Join(dir, "employer.key"), "-o", ws.pay, payEntries)
	require.NoError(t, err)
	return ws
}

const kycManifest = `
pods:
  gov: {file: gov.json}
  pay: {file: pay.json}
operations:
  - op: EqualFromEntries
    public: true
    args: [{key: gov.socialSecurityNumber}, {key: pay.socialSecurityNumber}]
  - op: LtFromEntries
    public: true
    args: [{key: gov.dateOfBirth}, {value: 1169909388}]
  - op: GtFromEntries
    public: true
    args: [{key: pay.startDate}, {value: 1706367000}]
`

// TestSignAndVerify tests keygen, sign and verify together
func TestSignAndVerify(t *testing.T) {
	ws := setup(t, "G2121210")

	out, err := run(t, "-c", ws.config, "verify", ws.gov)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	data, err := os.ReadFile(ws.gov)
	require.NoError(t, err)
	var tampered map[string]any
	require.NoError(t, json.Unmarshal(data, &tampered))
	tampered["entries"].(map[string]any)["socialSecurityNumber"] = "X"
	data, err = json.Marshal(tampered)
	require.NoError(t, err)
	bad := writeFile(t, ws.dir, "bad.json", string(data))

	_, err = run(t, "-c", ws.config, "verify", bad)
	require.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	ws := setup(t, "G2121210")

	out, err := run(t, "-c", ws.config, "store", "put", ws.gov)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, "-c", ws.config, "store", "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, "socialSecurityNumber")

	manifest := strings.Replace(kycManifest, "gov: {file: gov.json}", "gov: {cid: "+id+"}", 1)
	path := writeFile(t, ws.dir, "kyc.yaml", manifest)
	out, err = run(t, "-c", ws.config, "build", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestBuild(t *testing.T) {
	ws := setup(t, "G2121210")
	path := writeFile(t, ws.dir, "kyc.yaml", kycManifest)
	signals := filepath.Join(ws.dir, "signals.json")

	out, err := run(t, "-c", ws.config, "build", "--describe", "--signals", signals, path)
	require.NoError(t, err)
	assert.Contains(t, out, "main pod: 26 slots")
	assert.True(t, strings.HasSuffix(out, "ok\n"))

	data, err := os.ReadFile(signals)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "operationArgs")
}

func TestBuildRejectsMismatch(t *testing.T) {
	ws := setup(t, "G2121211")
	path := writeFile(t, ws.dir, "kyc.yaml", kycManifest)

	out, err := run(t, "-c", ws.config, "build", path)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL slot 16")
}

func TestProve(t *testing.T) {
	t.Setenv("POD2_CLI_HELPER", "1")
	ws := setup(t, "G2121210")
	path := writeFile(t, ws.dir, "kyc.yaml", kycManifest)
	proof := filepath.Join(ws.dir, "proof.json")

	_, err := run(t, "-c", ws.config, "prove", "-o", proof, path)
	require.NoError(t, err)

	data, err := os.ReadFile(proof)
	require.NoError(t, err)
	var result struct {
		Proof         map[string]any `json:"proof"`
		PublicSignals []string       `json:"publicSignals"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "helper", result.Proof["protocol"])
	assert.EqualValues(t, 2, result.Proof["lines"])
	assert.Equal(t, []string{"7"}, result.PublicSignals)
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"no operations", "pods: {}\n"},
		{"unknown field", "pods: {}\nops: []\n"},
		{"reserved alias", "pods:\n  self: {file: x.json}\noperations:\n  - op: None\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseManifest([]byte(tt.manifest))
			require.Error(t, err)
		})
	}
}

func TestManifestArgErrors(t *testing.T) {
	ws := setup(t, "G2121210")
	tests := []struct {
		name string
		args string
	}{
		{"two fields", `[{key: gov.idNumber, value: 1}, {value: 2}]`},
		{"bad key", `[{key: idNumber}, {value: 2}]`},
		{"unknown pod", `[{key: nobody.idNumber}, {value: 2}]`},
		{"forward ref", `[{ref: 3}, {value: 2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, ws.dir, "bad.yaml", fmt.Sprintf(`
pods:
  gov: {file: gov.json}
operations:
  - op: EqualFromEntries
    args: %s
`, tt.args))
			_, err := run(t, "-c", ws.config, "build", path)
			require.Error(t, err)
		})
	}
}
