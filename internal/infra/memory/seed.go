package memory

import "blockquest/internal/domain"

// SeedQuestions is the curated bank used when no database is configured.
func SeedQuestions() map[string][]domain.QuizQuestion {
	return map[string][]domain.QuizQuestion{
		"basics": {
			{
				Question:     "What links each block to the one before it?",
				Options:      []string{"A timestamp", "The previous block's hash", "The miner's name", "A random number"},
				CorrectIndex: 1,
				Explanation:  "Every block records the hash of its predecessor, so changing one block breaks every link after it.",
				Topic:        "basics",
			},
			{
				Question:     "What is the first block of a chain called?",
				Options:      []string{"The root block", "The zero block", "The genesis block", "The origin node"},
				CorrectIndex: 2,
				Explanation:  "The genesis block has no predecessor and anchors the whole chain.",
				Topic:        "basics",
			},
		},
		"consensus": {
			{
				Question:     "In Proof of Stake, what decides who proposes the next block?",
				Options:      []string{"Raw computing power", "The amount of value locked as stake", "Alphabetical order", "Network latency"},
				CorrectIndex: 1,
				Explanation:  "Validators are chosen in proportion to the stake they lock up, which they can lose for misbehaving.",
				Topic:        "consensus",
			},
			{
				Question:     "What does a 51% attack require in Proof of Work?",
				Options:      []string{"Half of all wallets", "A majority of the network's hash power", "51 colluding nodes", "Control of the genesis block"},
				CorrectIndex: 1,
				Explanation:  "An attacker with most of the hash power can outpace honest miners and rewrite recent history.",
				Topic:        "consensus",
			},
		},
		"smart_contracts": {
			{
				Question:     "What is 'gas' on Ethereum?",
				Options:      []string{"A token for voting", "A fee unit for computation", "A type of wallet", "A consensus rule"},
				CorrectIndex: 1,
				Explanation:  "Gas meters the computation a transaction performs, and the sender pays for it.",
				Topic:        "smart_contracts",
			},
			{
				Question:     "Why is deployed smart contract code hard to fix?",
				Options:      []string{"It is encrypted", "It is immutable once on chain", "It runs offline", "It has no owner"},
				CorrectIndex: 1,
				Explanation:  "Deployed bytecode cannot be edited, so upgrades need proxies or a fresh deployment.",
				Topic:        "smart_contracts",
			},
		},
		"security": {
			{
				Question:     "What is a reentrancy attack?",
				Options:      []string{"Reusing a private key", "Calling back into a contract before its state is updated", "Flooding the mempool", "Replaying an old block"},
				CorrectIndex: 1,
				Explanation:  "A malicious callee re-enters the caller mid-execution and drains funds before balances are updated.",
				Topic:        "security",
			},
			{
				Question:     "Where should a seed phrase be kept?",
				Options:      []string{"In a cloud note", "In an email draft", "Offline, in a secure place", "In the wallet's username"},
				CorrectIndex: 2,
				Explanation:  "Anyone with the seed phrase controls the funds, so it belongs offline.",
				Topic:        "security",
			},
		},
	}
}
