package main

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/screa/hashhunter/internal/crypto"
)

var errVerificationFailed = errors.New("address does not match private key")

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <address> <private-key>",
		Short: "Check that a private key controls an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, key := args[0], args[1]
			if !common.IsHexAddress(address) {
				return fmt.Errorf("%w: %q", crypto.ErrInvalidAddress, address)
			}
			if _, err := crypto.PrivateKeyBytes(key); err != nil {
				return err
			}

			if !crypto.IsChecksumValid(address) {
				yellow.Fprintln(cmd.OutOrStdout(), "Warning: address has mixed case but an invalid EIP-55 checksum")
			}
			if !crypto.VerifyAddress(address, key) {
				red.Fprintln(cmd.OutOrStdout(), "Address verification: FAILED")
				return errVerificationFailed
			}
			green.Fprintln(cmd.OutOrStdout(), "Address verification: PASSED")
			return nil
		},
	}
}

func newChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <address>",
		Short: "Print the EIP-55 checksummed form of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(args[0]) {
				return fmt.Errorf("%w: %q", crypto.ErrInvalidAddress, args[0])
			}
			addr, err := crypto.MustAddressBytes(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), crypto.ChecksumAddress(addr))
			return nil
		},
	}
}
