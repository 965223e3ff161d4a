package coa

import (
	"sort"

	"github.com/google/uuid"
)

// AccountRole is a semantic tag resolved against a branch's chart of
// accounts at statement time. Roles are never persisted; they exist so that
// statement builders can find "the trade receivables account" without
// hard-coding identifiers into a user-editable chart.
type AccountRole string

const (
	RoleCashPrimary             AccountRole = "CASH_PRIMARY"
	RoleCashPetty               AccountRole = "CASH_PETTY"
	RoleBank                    AccountRole = "BANK"
	RoleReceivablesTrade        AccountRole = "RECEIVABLES_TRADE"
	RoleEmployeeAdvances        AccountRole = "EMPLOYEE_ADVANCES"
	RoleTaxReceivable           AccountRole = "TAX_RECEIVABLE"
	RoleInventoryRawMaterial    AccountRole = "INVENTORY_RAW_MATERIAL"
	RoleInventoryFinishedGoods  AccountRole = "INVENTORY_FINISHED_GOODS"
	RoleFixedAssets             AccountRole = "FIXED_ASSETS"
	RoleAccumulatedDepreciation AccountRole = "ACCUMULATED_DEPRECIATION"
	RolePayablesTrade           AccountRole = "PAYABLES_TRADE"
	RoleCreditCardPayable       AccountRole = "CREDIT_CARD_PAYABLE"
	RolePayrollPayable          AccountRole = "PAYROLL_PAYABLE"
	RoleTaxPayable              AccountRole = "TAX_PAYABLE"
	RoleOtherPayable            AccountRole = "OTHER_PAYABLE"
	RoleBankLoan                AccountRole = "BANK_LOAN"
	RoleOwnerEquity             AccountRole = "OWNER_EQUITY"
	RoleRetainedEarnings        AccountRole = "RETAINED_EARNINGS"
	RoleOwnerDrawings           AccountRole = "OWNER_DRAWINGS"
)

// roleRule drives resolution for one role. Matching runs in three ordered
// passes and the first pass producing at least one candidate wins:
//
//  1. code prefix match against CodePrefixes
//  2. case-insensitive name keyword match against NameKeywords
//  3. coarse fallback: any account of Types whose name contains one of
//     TypeKeywords
//
// ExcludeKeywords filter passes 2 and 3 so that e.g. "Hutang Gaji" never
// resolves as trade payables. Header accounts never match any pass.
type roleRule struct {
	CodePrefixes    []string
	NameKeywords    []string
	ExcludeKeywords []string
	Types           []AccountType
	TypeKeywords    []string
}

// The keyword lists are bilingual because deployed charts mix Indonesian and
// English account names.
var roleRules = map[AccountRole]roleRule{
	RoleCashPrimary: {
		CodePrefixes:    []string{"1110"},
		NameKeywords:    []string{"kas besar", "kas utama", "kas tunai", "kas operasional", "cash on hand"},
		ExcludeKeywords: []string{"kas kecil", "petty"},
		Types:           []AccountType{AccountTypeAsset},
		TypeKeywords:    []string{"kas", "cash"},
	},
	RoleCashPetty: {
		CodePrefixes: []string{"1120"},
		NameKeywords: []string{"kas kecil", "petty cash"},
		Types:        []AccountType{AccountTypeAsset},
		TypeKeywords: []string{"petty"},
	},
	RoleBank: {
		CodePrefixes:    []string{"1130", "1140"},
		NameKeywords:    []string{"bank", "rekening", "giro"},
		ExcludeKeywords: []string{"piutang bank", "hutang bank", "utang bank", "pinjaman"},
		Types:           []AccountType{AccountTypeAsset},
		TypeKeywords:    []string{"bank"},
	},
	RoleReceivablesTrade: {
		CodePrefixes:    []string{"121"},
		NameKeywords:    []string{"piutang usaha", "piutang dagang", "piutang pelanggan", "account receivable", "trade receivable"},
		ExcludeKeywords: []string{"piutang karyawan", "piutang pajak", "piutang lain", "kasbon"},
		Types:           []AccountType{AccountTypeAsset},
		TypeKeywords:    []string{"piutang", "receivable"},
	},
	RoleEmployeeAdvances: {
		CodePrefixes: []string{"122"},
		NameKeywords: []string{"piutang karyawan", "kasbon", "panjar", "pinjaman karyawan", "employee advance", "employee loan"},
		Types:        []AccountType{AccountTypeAsset},
		TypeKeywords: []string{"karyawan"},
	},
	RoleTaxReceivable: {
		CodePrefixes:    []string{"123"},
		NameKeywords:    []string{"piutang pajak", "ppn masukan", "pajak masukan", "tax receivable", "input tax", "ppn dibayar dimuka"},
		ExcludeKeywords: []string{"hutang pajak", "pajak keluaran", "ppn keluaran"},
		Types:           []AccountType{AccountTypeAsset},
		TypeKeywords:    []string{"pajak", "tax"},
	},
	RoleInventoryFinishedGoods: {
		CodePrefixes:    []string{"131"},
		NameKeywords:    []string{"persediaan barang", "barang jadi", "barang dagang", "finished goods", "produk jadi"},
		ExcludeKeywords: []string{"bahan baku", "wip", "dalam proses"},
		Types:           []AccountType{AccountTypeAsset},
		TypeKeywords:    []string{"persediaan", "inventory"},
	},
	RoleInventoryRawMaterial: {
		CodePrefixes:    []string{"132"},
		NameKeywords:    []string{"persediaan bahan", "bahan baku", "raw material"},
		ExcludeKeywords: []string{"barang jadi", "wip", "dalam proses"},
		Types:           []AccountType{AccountTypeAsset},
		TypeKeywords:    []string{"bahan", "material"},
	},
	RoleFixedAssets: {
		CodePrefixes:    []string{"14", "15", "16"},
		NameKeywords:    []string{"kendaraan", "peralatan", "mesin", "bangunan", "gedung", "tanah", "komputer", "furniture", "vehicle", "equipment"},
		ExcludeKeywords: []string{"akumulasi", "accumulated", "penyusutan"},
		Types:           []AccountType{AccountTypeAsset},
		TypeKeywords:    []string{"aset tetap", "fixed asset"},
	},
	RoleAccumulatedDepreciation: {
		CodePrefixes: []string{"17"},
		NameKeywords: []string{"akumulasi penyusutan", "akumulasi", "accumulated depreciation"},
		Types:        []AccountType{AccountTypeAsset},
		TypeKeywords: []string{"penyusutan", "depreciation"},
	},
	RolePayablesTrade: {
		CodePrefixes:    []string{"211"},
		NameKeywords:    []string{"hutang usaha", "hutang dagang", "utang usaha", "utang dagang", "hutang supplier", "account payable", "trade payable"},
		ExcludeKeywords: []string{"hutang gaji", "hutang pajak", "hutang bank", "kartu kredit"},
		Types:           []AccountType{AccountTypeLiability},
		TypeKeywords:    []string{"hutang", "utang", "payable"},
	},
	RoleCreditCardPayable: {
		CodePrefixes: []string{"213"},
		NameKeywords: []string{"kartu kredit", "credit card"},
		Types:        []AccountType{AccountTypeLiability},
		TypeKeywords: []string{"kartu"},
	},
	RolePayrollPayable: {
		CodePrefixes: []string{"214"},
		NameKeywords: []string{"hutang gaji", "utang gaji", "gaji terutang", "accrued salary", "salaries payable"},
		Types:        []AccountType{AccountTypeLiability},
		TypeKeywords: []string{"gaji", "salary"},
	},
	RoleTaxPayable: {
		CodePrefixes:    []string{"215"},
		NameKeywords:    []string{"hutang pajak", "utang pajak", "pajak terutang", "pph terutang", "ppn terutang", "tax payable"},
		ExcludeKeywords: []string{"piutang pajak", "ppn masukan"},
		Types:           []AccountType{AccountTypeLiability},
		TypeKeywords:    []string{"pajak", "tax"},
	},
	RoleOtherPayable: {
		CodePrefixes:    []string{"219"},
		NameKeywords:    []string{"hutang lain", "utang lain", "kewajiban lain", "other payable"},
		ExcludeKeywords: []string{"hutang usaha", "hutang bank", "hutang gaji", "hutang pajak", "kartu kredit"},
		Types:           []AccountType{AccountTypeLiability},
		TypeKeywords:    nil,
	},
	RoleBankLoan: {
		CodePrefixes:    []string{"22"},
		NameKeywords:    []string{"hutang bank", "utang bank", "pinjaman bank", "kredit bank", "bank loan"},
		ExcludeKeywords: []string{"kartu kredit"},
		Types:           []AccountType{AccountTypeLiability},
		TypeKeywords:    []string{"pinjaman", "loan"},
	},
	RoleOwnerEquity: {
		CodePrefixes:    []string{"31"},
		NameKeywords:    []string{"modal pemilik", "modal disetor", "modal saham", "owner equity", "capital"},
		ExcludeKeywords: []string{"laba", "prive", "drawing"},
		Types:           []AccountType{AccountTypeEquity},
		TypeKeywords:    []string{"modal"},
	},
	RoleRetainedEarnings: {
		CodePrefixes: []string{"32"},
		NameKeywords: []string{"laba ditahan", "saldo laba", "retained earning"},
		Types:        []AccountType{AccountTypeEquity},
		TypeKeywords: []string{"laba"},
	},
	RoleOwnerDrawings: {
		CodePrefixes: []string{"33"},
		NameKeywords: []string{"prive", "drawing", "pengambilan pemilik"},
		Types:        []AccountType{AccountTypeEquity},
		TypeKeywords: nil,
	},
}

// cashRoles form the cash-and-equivalents set used by the balance sheet and
// the cash-flow classifier.
var cashRoles = []AccountRole{RoleCashPrimary, RoleCashPetty, RoleBank}

// FindByRole resolves a single account for the role, or nil when the branch
// chart has no match. Callers must treat nil as "use the fallback path",
// never as an error. When several accounts match, the one with the lowest
// code wins so resolution is deterministic.
func FindByRole(accounts []Account, role AccountRole) *Account {
	matches := FindAllByRole(accounts, role)
	if len(matches) == 0 {
		return nil
	}
	first := matches[0]
	return &first
}

// FindAllByRole returns every account matching the role, ordered by
// ascending code.
func FindAllByRole(accounts []Account, role AccountRole) []Account {
	rule, ok := roleRules[role]
	if !ok {
		return nil
	}

	byPrefix := make([]Account, 0)
	byKeyword := make([]Account, 0)
	byType := make([]Account, 0)

	for _, acc := range accounts {
		if acc.IsHeader {
			continue
		}
		if matchesPrefix(acc, rule.CodePrefixes) {
			byPrefix = append(byPrefix, acc)
			continue
		}
		if excluded(acc, rule.ExcludeKeywords) {
			continue
		}
		if matchesType(acc, rule.Types) && matchesKeyword(acc, rule.NameKeywords) {
			byKeyword = append(byKeyword, acc)
			continue
		}
		if matchesType(acc, rule.Types) && matchesKeyword(acc, rule.TypeKeywords) {
			byType = append(byType, acc)
		}
	}

	result := byPrefix
	if len(result) == 0 {
		result = byKeyword
	}
	if len(result) == 0 {
		result = byType
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// FindByType returns all non-header accounts of the given type.
func FindByType(accounts []Account, t AccountType) []Account {
	var out []Account
	for _, acc := range accounts {
		if acc.IsHeader || acc.Type != t {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// TotalBalance sums balances over a set of accounts.
func TotalBalance(accounts []Account) float64 {
	var sum float64
	for _, acc := range accounts {
		sum += acc.Balance
	}
	return sum
}

// BalanceByRole sums the balances of every account matching the role.
func BalanceByRole(accounts []Account, role AccountRole) float64 {
	return TotalBalance(FindAllByRole(accounts, role))
}

// FindCashAccounts returns the deduplicated union of the cash and bank roles.
func FindCashAccounts(accounts []Account) []Account {
	seen := make(map[uuid.UUID]bool)
	var out []Account
	for _, role := range cashRoles {
		for _, acc := range FindAllByRole(accounts, role) {
			if seen[acc.ID] {
				continue
			}
			seen[acc.ID] = true
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// CashAccountIDs is FindCashAccounts as an id set, for classifier use.
func CashAccountIDs(accounts []Account) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool)
	for _, acc := range FindCashAccounts(accounts) {
		out[acc.ID] = true
	}
	return out
}

func matchesPrefix(acc Account, prefixes []string) bool {
	for _, p := range prefixes {
		if acc.CodeHasPrefix(p) {
			return true
		}
	}
	return false
}

func matchesKeyword(acc Account, keywords []string) bool {
	for _, k := range keywords {
		if acc.NameContains(k) {
			return true
		}
	}
	return false
}

func excluded(acc Account, keywords []string) bool {
	for _, k := range keywords {
		if acc.NameContains(k) {
			return true
		}
	}
	return false
}

func matchesType(acc Account, types []AccountType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if acc.Type == t {
			return true
		}
	}
	return false
}
