package escrow

import (
	"math"
	"sort"

	"github.com/agnivade/levenshtein"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// MaxTypoDistance is the furthest edit distance at which an unknown
// method name still earns a suggestion.
const MaxTypoDistance = 3

// Method describes one contract method.
type Method struct {
	Name     string
	ReadOnly bool // resolvable by simulation alone, no submission
	Auth     bool // requires caller authorization entries
}

// methodCatalog is the full surface of the escrow contract.
var methodCatalog = map[string]Method{
	// Lifecycle
	"initialize":    {Name: "initialize", Auth: true},
	"create_escrow": {Name: "create_escrow", Auth: true},
	"start_work":    {Name: "start_work", Auth: true},

	// Milestones
	"submit_milestone":   {Name: "submit_milestone", Auth: true},
	"resubmit_milestone": {Name: "resubmit_milestone", Auth: true},
	"approve_milestone":  {Name: "approve_milestone", Auth: true},
	"reject_milestone":   {Name: "reject_milestone", Auth: true},
	"dispute_milestone":  {Name: "dispute_milestone", Auth: true},

	// Marketplace
	"apply_to_job":      {Name: "apply_to_job", Auth: true},
	"accept_freelancer": {Name: "accept_freelancer", Auth: true},

	// Refunds and deadlines
	"refund_escrow":                   {Name: "refund_escrow", Auth: true},
	"emergency_refund_after_deadline": {Name: "emergency_refund_after_deadline", Auth: true},
	"extend_deadline":                 {Name: "extend_deadline", Auth: true},

	// Ratings
	"submit_rating": {Name: "submit_rating", Auth: true},

	// Admin
	"set_owner":            {Name: "set_owner", Auth: true},
	"set_platform_fee_bp":  {Name: "set_platform_fee_bp", Auth: true},
	"set_fee_collector":    {Name: "set_fee_collector", Auth: true},
	"whitelist_token":      {Name: "whitelist_token", Auth: true},
	"authorize_arbiter":    {Name: "authorize_arbiter", Auth: true},
	"pause_job_creation":   {Name: "pause_job_creation", Auth: true},
	"unpause_job_creation": {Name: "unpause_job_creation", Auth: true},

	// Reads
	"get_escrow":             {Name: "get_escrow", ReadOnly: true},
	"get_milestone":          {Name: "get_milestone", ReadOnly: true},
	"get_milestones":         {Name: "get_milestones", ReadOnly: true},
	"get_application":        {Name: "get_application", ReadOnly: true},
	"get_applications":       {Name: "get_applications", ReadOnly: true},
	"has_applied":            {Name: "has_applied", ReadOnly: true},
	"get_next_escrow_id":     {Name: "get_next_escrow_id", ReadOnly: true},
	"get_user_escrows":       {Name: "get_user_escrows", ReadOnly: true},
	"get_completed_escrows":  {Name: "get_completed_escrows", ReadOnly: true},
	"get_rating":             {Name: "get_rating", ReadOnly: true},
	"get_average_rating":     {Name: "get_average_rating", ReadOnly: true},
	"get_reputation":         {Name: "get_reputation", ReadOnly: true},
	"get_badge":              {Name: "get_badge", ReadOnly: true},
	"get_owner":              {Name: "get_owner", ReadOnly: true},
	"get_platform_fee_bp":    {Name: "get_platform_fee_bp", ReadOnly: true},
	"get_fee_collector":      {Name: "get_fee_collector", ReadOnly: true},
	"calculate_fee":          {Name: "calculate_fee", ReadOnly: true},
	"is_whitelisted_token":   {Name: "is_whitelisted_token", ReadOnly: true},
	"is_authorized_arbiter":  {Name: "is_authorized_arbiter", ReadOnly: true},
	"is_job_creation_paused": {Name: "is_job_creation_paused", ReadOnly: true},
}

// LookupMethod resolves a method name against the catalog. Unknown
// names fail with a "did you mean" suggestion when a close match
// exists.
func LookupMethod(name string) (Method, error) {
	if m, ok := methodCatalog[name]; ok {
		return m, nil
	}

	err := ekerr.WithDetails(
		ekerr.Wrap(ekerr.ErrInvalidMethod, "unknown contract method"),
		map[string]string{"method": name},
	)
	if suggestion := SuggestMethod(name); suggestion != "" {
		err = ekerr.WithSuggestion(err, "Did you mean '"+suggestion+"'?")
	}
	return Method{}, err
}

// SuggestMethod finds the closest catalog method to the input using
// Levenshtein distance. Returns empty string if nothing is close
// enough.
func SuggestMethod(input string) string {
	minDist := math.MaxInt
	var suggestion string

	for name := range methodCatalog {
		dist := levenshtein.ComputeDistance(input, name)
		if dist < minDist {
			minDist = dist
			suggestion = name
		}
		if dist == 0 {
			return name
		}
	}

	if minDist > MaxTypoDistance {
		return ""
	}
	return suggestion
}

// MethodNames returns every catalog method name, sorted.
func MethodNames() []string {
	names := make([]string, 0, len(methodCatalog))
	for name := range methodCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
