package sshconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/treykane/sshmark/internal/model"
)

const sample = `
Host *
  ServerAliveInterval 30

Host api api-alias
  HostName 10.0.0.5
  User deploy
  Port 2222
  IdentityFile ~/.ssh/id_api

Host db
  HostName db.internal
  ProxyJump bastion
  Port 22

Host *.corp !secret
  User corp
`

func TestImport(t *testing.T) {
	res, err := Import(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	var aliases []string
	for _, h := range res.Hosts {
		aliases = append(aliases, h.Alias)
	}
	want := []string{"api", "api-alias", "db"}
	if !reflect.DeepEqual(aliases, want) {
		t.Fatalf("aliases mismatch\nwant=%v\n got=%v", want, aliases)
	}

	api := res.Hosts[0]
	if api.LoginTarget() != "deploy@10.0.0.5" {
		t.Fatalf("unexpected login target: %s", api.LoginTarget())
	}
	wantArgs := []string{"-p", "2222", "-i", "~/.ssh/id_api"}
	if !reflect.DeepEqual(api.ClientArgs(), wantArgs) {
		t.Fatalf("args mismatch\nwant=%v\n got=%v", wantArgs, api.ClientArgs())
	}

	db := res.Hosts[2]
	if db.LoginTarget() != "db.internal" {
		t.Fatalf("unexpected login target: %s", db.LoginTarget())
	}
	if !reflect.DeepEqual(db.ClientArgs(), []string{"-J", "bastion"}) {
		t.Fatalf("unexpected db args: %v", db.ClientArgs())
	}
}

func TestImportInvalidPort(t *testing.T) {
	res, err := Import(strings.NewReader("Host broken\n  Port 70000\n"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Hosts) != 1 || res.Hosts[0].Port != 0 {
		t.Fatalf("expected out-of-range port to be dropped, got %+v", res.Hosts)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning for the invalid port")
	}
}

func TestImportFileMissing(t *testing.T) {
	if _, err := ImportFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("Host web\n  HostName web.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := ImportFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.HostEntry{{Alias: "web", HostName: "web.example.com"}}
	if !reflect.DeepEqual(res.Hosts, want) {
		t.Fatalf("hosts mismatch\nwant=%+v\n got=%+v", want, res.Hosts)
	}
}
