package reconcile

// FlagPair links a feature flag to the companion secret it gates. A key
// whose flag is off is silently inert, and an enabled flag with no key
// does nothing either; both are common sources of setup confusion.
type FlagPair struct {
	Flag      string `yaml:"flag"`
	Companion string `yaml:"companion"`
}

// DefaultFlagPairs returns the one built-in pair. Additional provider
// pairs can be declared in the project settings file.
func DefaultFlagPairs() []FlagPair {
	return []FlagPair{
		{Flag: "LANGSMITH_TRACING", Companion: "LANGSMITH_API_KEY"},
	}
}

// PairStatus classifies the state of one flag/companion pair.
type PairStatus int

const (
	// PairEnabled: flag is true and the companion holds a real value.
	PairEnabled PairStatus = iota
	// PairKeyMissing: flag is true but the companion is unset or empty.
	PairKeyMissing
	// PairKeyPlaceholder: flag is true but the companion still equals the
	// template placeholder.
	PairKeyPlaceholder
	// PairFlagDisabled: the companion holds a real value but the flag is
	// not true, so the value is inert.
	PairFlagDisabled
)

// PairNote is the finding for one pair. Pairs with nothing to say (flag
// off, companion unset) produce no note.
type PairNote struct {
	Pair   FlagPair
	Status PairStatus
}
