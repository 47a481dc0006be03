package members

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	//go:embed members.toml
	defaultManifest string

	ErrNotFound = errors.New("member not found")
)

type manifest struct {
	Members []Member `toml:"members"`
}

// Directory is the immutable list of members in manifest order.
type Directory struct {
	members []Member
	byID    map[string]int
}

// Load reads a manifest from path, or the embedded manifest if path is empty.
func Load(path string) (*Directory, error) {
	if path == "" {
		return Parse(strings.NewReader(defaultManifest))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open member manifest: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Parse(file)
}

func Parse(r io.Reader) (*Directory, error) {
	var m manifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode member manifest: %w", err)
	}

	d := &Directory{
		members: m.Members,
		byID:    make(map[string]int, len(m.Members)),
	}
	for i, member := range m.Members {
		if err := member.validate(); err != nil {
			return nil, err
		}
		if _, ok := d.byID[member.ID]; ok {
			return nil, fmt.Errorf("duplicate member id %q", member.ID)
		}
		d.byID[member.ID] = i
	}
	return d, nil
}

func (d *Directory) All() []Member {
	return slices.Clone(d.members)
}

func (d *Directory) Len() int {
	return len(d.members)
}

func (d *Directory) Get(id string) (Member, error) {
	i, ok := d.byID[id]
	if !ok {
		return Member{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return d.members[i], nil
}

// WithTitle returns the members whose title equals title, ignoring case.
func (d *Directory) WithTitle(title string) []Member {
	var members []Member
	for _, member := range d.members {
		if strings.EqualFold(member.Title, title) {
			members = append(members, member)
		}
	}
	return members
}
