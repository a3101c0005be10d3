package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Setheum-Labs/HS3/pkg/crypto/signing"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Member represents the private data about a committee member.
type Member struct {
	// The process id of this member.
	Pid uint16

	// The private key of this committee member.
	PrivateKey gomel.PrivateKey
}

// Committee represents the public data about the committee known before the algorithm starts.
type Committee struct {
	// Public keys of all committee members, ordered according to process ids.
	PublicKeys []gomel.PublicKey
}

const malformedData = "malformed committee data"

// LoadMember loads the data from the given reader and creates a member.
// Expects a single line of the form "private_key pid".
func LoadMember(r io.Reader) (*Member, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	if !scanner.Scan() {
		return nil, errors.New(malformedData)
	}
	privateKey, err := signing.DecodePrivateKey(scanner.Text())
	if err != nil {
		return nil, err
	}

	if !scanner.Scan() {
		return nil, errors.New(malformedData)
	}
	pid, err := strconv.ParseUint(scanner.Text(), 10, 16)
	if err != nil {
		return nil, err
	}
	return &Member{Pid: uint16(pid), PrivateKey: privateKey}, nil
}

// LoadCommittee loads the data from the given reader and creates a committee.
// Expects one public key per line, in the order of process ids. Empty lines are skipped.
func LoadCommittee(r io.Reader) (*Committee, error) {
	scanner := bufio.NewScanner(r)
	c := &Committee{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		pub, err := signing.DecodePublicKey(line)
		if err != nil {
			return nil, fmt.Errorf("%s: key %d: %v", malformedData, len(c.PublicKeys), err)
		}
		c.PublicKeys = append(c.PublicKeys, pub)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(c.PublicKeys) == 0 {
		return nil, errors.New(malformedData)
	}
	return c, nil
}

// StoreMember writes the member in the format read by LoadMember.
func StoreMember(w io.Writer, m *Member) error {
	_, err := fmt.Fprintf(w, "%s %d\n", m.PrivateKey.Encode(), m.Pid)
	return err
}

// StoreCommittee writes the committee in the format read by LoadCommittee.
func StoreCommittee(w io.Writer, c *Committee) error {
	for _, pub := range c.PublicKeys {
		if _, err := fmt.Fprintln(w, pub.Encode()); err != nil {
			return err
		}
	}
	return nil
}

// Keychain binds the member's private key with the public keys of the committee.
func (c *Committee) Keychain(m *Member) (gomel.Keychain, error) {
	if int(m.Pid) >= len(c.PublicKeys) {
		return nil, gomel.NewConfigError("member pid outside of the committee")
	}
	return signing.NewKeychain(m.Pid, m.PrivateKey, c.PublicKeys), nil
}

// Apply sets the committee-dependent fields of the configuration.
func (c *Committee) Apply(conf *Config, m *Member) {
	conf.NProc = uint16(len(c.PublicKeys))
	conf.Pid = m.Pid
}
