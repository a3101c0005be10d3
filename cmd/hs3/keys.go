package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/crypto/signing"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

var keysDir string

func init() {
	keysCmd.Flags().StringVarP(&keysDir, "dir", "d", ".", "directory the key files are written to")
}

// keysCmd writes <pid>.pk with the private data of every member and committee.ks with all the public keys.
var keysCmd = &cobra.Command{
	Use:   "keys <number>",
	Short: "Generate keys for a committee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			reportErrorf("Invalid number of processes %q: %v", args[0], err)
		}
		if num < 4 {
			reportErrorf("Cannot have less than 4 processes.")
		}
		if err := os.MkdirAll(keysDir, 0o755); err != nil {
			reportErrorf("Unable to create directory %s: %v", keysDir, err)
		}
		committee := &config.Committee{}
		for pid := 0; pid < num; pid++ {
			pub, priv, err := signing.GenerateKeys()
			if err != nil {
				reportErrorf("Key generation failed: %v", err)
			}
			committee.PublicKeys = append(committee.PublicKeys, pub)
			member := &config.Member{Pid: uint16(pid), PrivateKey: priv}
			if err := writeFile(filepath.Join(keysDir, strconv.Itoa(pid)+".pk"), func(f *os.File) error {
				return config.StoreMember(f, member)
			}); err != nil {
				reportErrorf("%v", err)
			}
		}
		if err := writeFile(filepath.Join(keysDir, "committee.ks"), func(f *os.File) error {
			return config.StoreCommittee(f, committee)
		}); err != nil {
			reportErrorf("%v", err)
		}
		fmt.Printf("Keys of %d processes written to %s\n", num, keysDir)
	},
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadKeys reads the files written by keysCmd.
func loadKeys(dir string) (*config.Committee, []gomel.PrivateKey, error) {
	f, err := os.Open(filepath.Join(dir, "committee.ks"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	committee, err := config.LoadCommittee(f)
	if err != nil {
		return nil, nil, err
	}
	privs := make([]gomel.PrivateKey, len(committee.PublicKeys))
	for pid := range privs {
		mf, err := os.Open(filepath.Join(dir, strconv.Itoa(pid)+".pk"))
		if err != nil {
			return nil, nil, err
		}
		member, err := config.LoadMember(mf)
		mf.Close()
		if err != nil {
			return nil, nil, err
		}
		if int(member.Pid) != pid {
			return nil, nil, gomel.NewConfigError("member file " + strconv.Itoa(pid) + " holds a different pid")
		}
		privs[pid] = member.PrivateKey
	}
	return committee, privs, nil
}
