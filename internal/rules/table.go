package rules

import "github.com/ioozy/scamwatch/internal/domain"

// Rule associates one tactic category with its matchers: case-insensitive
// keywords and/or regular expressions. Several rules may target the same
// category. The table is loaded once at startup and never reloaded.
type Rule struct {
	Name     string          `json:"name"     yaml:"name"`
	Category domain.Category `json:"category" yaml:"category"`
	Keywords []string        `json:"keywords" yaml:"keywords"`
	Patterns []string        `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// DefaultRules returns the built-in scam-tactic rule table, ordered by
// category evaluation order. Keyword lists mix English and Traditional
// Chinese because the inbound traffic does.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "authority_detection",
			Category: domain.CategoryAuthority,
			Keywords: []string{
				"officer", "bank", "agent", "official", "protocol",
				"警察", "檢察官", "銀行專員", "公安",
			},
		},
		{
			Name:     "similarity_detection",
			Category: domain.CategorySimilarity,
			Keywords: []string{
				"me too", "same here", "just like you", "i also",
				"我也是", "我也住", "跟你一樣",
			},
		},
		{
			Name:     "scarcity_detection",
			Category: domain.CategoryScarcity,
			Keywords: []string{
				"last chance", "only today", "limited", "rare",
				"最後機會", "限時", "僅此一次",
			},
		},
		{
			Name:     "urgency_detection",
			Category: domain.CategoryUrgency,
			Keywords: []string{
				"urgent", "immediately", "asap", "right away",
				"快點", "馬上", "立刻", "緊急",
			},
		},
		{
			Name:     "romance_detection",
			Category: domain.CategoryRomance,
			Keywords: []string{
				"sweetheart", "my love", "miss you", "never felt",
				"親愛的", "想你", "寶貝",
			},
		},
		{
			Name:     "crisis_detection",
			Category: domain.CategoryCrisis,
			Keywords: []string{
				"hospital", "surgery", "accident", "customs", "visa",
				"醫院", "急診", "手術", "車禍", "醫藥費",
			},
			Patterns: []string{
				// Account-freeze phrasing near a bank/account mention.
				`(?:帳[戶號号]|銀行|account|bank)[\s\S]{0,30}?(?:凍結|解凍|frozen|freeze|unfreeze)`,
				// Urgent medical-expense phrasing.
				`(?:急需|急用錢|urgent)[\s\S]{0,16}?(?:醫藥費|醫療費|醫院|hospital|medical)`,
			},
		},
		{
			Name:     "payment_detection",
			Category: domain.CategoryPayment,
			Keywords: []string{
				"transfer", "wire", "crypto", "bitcoin", "gift card",
				"account number", "匯款", "轉帳", "帳號", "比特幣", "禮物卡",
			},
			Patterns: []string{
				// Transfer/borrow verb followed by a numeric amount.
				`(?:transfer|wire|send|borrow|匯|轉|借)[^\d]{0,12}\d[\d,.]*`,
				// Numeric amount followed by a currency-unit or pay word.
				`\d[\d,.]*[^\d]{0,6}?(?:dollars?|usd|ntd|twd|元|塊|萬|付|給)`,
				// Bank account number shape.
				`\d{2,4}-\d{2,4}-\d{2,6}`,
			},
		},
	}
}
