package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nspcc-dev/multisig-contract/rpc/multisig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contract := flag.String("contract", "", "Address or LE script hash of the Multisig contract")
	withStorage := flag.Bool("storage", false, "Include raw contract storage items (requires state service)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contract == "":
		log.Fatal("missing contract address")
	}

	contractHash, err := parseContract(*contract)
	if err != nil {
		log.Fatal(err)
	}

	res, err := _dump(*neoRPCEndpoint, contractHash, *withStorage)
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	err = enc.Encode(res)
	if err != nil {
		log.Fatal(fmt.Errorf("encode state into JSON: %w", err))
	}
}

func parseContract(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("invalid contract '%s': neither address nor LE script hash", s)
	}

	return h, nil
}

func _dump(neoBlockchainRPCEndpoint string, contract util.Uint160, withStorage bool) (*stateDump, error) {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	r := multisig.NewReader(b.invoker, contract)

	principals, err := r.Principals()
	if err != nil {
		return nil, fmt.Errorf("get principals: %w", err)
	}

	snapshot, err := r.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("get authorization state: %w", err)
	}

	balance, err := r.Balance()
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	version, err := r.Version()
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}

	res := newStateDump(contract, b.currentBlock, principals, snapshot)
	res.Balance = balance.String()
	res.Version = version.String()

	if withStorage {
		log.Printf("Reading storage of contract '%s'...\n", contract.StringLE())

		err = b.iterateContractStorage(contract, res.addStorageItem)
		if err != nil {
			return nil, fmt.Errorf("iterate contract storage: %w", err)
		}
	}

	return res, nil
}
