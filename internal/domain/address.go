package domain

import "strings"

// Address is an opaque external-chain principal. Contract principals carry a
// ".<contract-name>" suffix on the deploying account.
type Address string

// ContractAddress returns the contract principal deployed by deployer.
func ContractAddress(deployer Address, name string) Address {
	return Address(string(deployer) + "." + name)
}

func (a Address) IsContract() bool {
	return strings.Contains(string(a), ".")
}

func (a Address) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

func (a Address) String() string {
	return string(a)
}

// Contract names of the ledger components.
const (
	ContractRegistry    = "property-registry"
	ContractShares      = "property-shares"
	ContractVault       = "rent-vault"
	ContractProposals   = "capex-proposals"
	ContractCashFlow    = "cash-flow"
	ContractDistributor = "yield-distributor"
	ContractSettlement  = "settlement-token"
)
