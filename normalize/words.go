package normalize

// abbreviations maps lowercase domain abbreviations to their expanded form.
// Expansion happens on whole words only.
var abbreviations = map[string]string{
	"2fa":      "two factor authentication",
	"acct":     "account",
	"admin":    "administrator",
	"api":      "application programming interface",
	"app":      "application",
	"auth":     "authentication",
	"cfg":      "configuration",
	"conn":     "connection",
	"config":   "configuration",
	"creds":    "credentials",
	"db":       "database",
	"dev":      "development",
	"dns":      "domain name system",
	"env":      "environment",
	"k8s":      "kubernetes",
	"mfa":      "multi factor authentication",
	"mongo":    "mongodb",
	"msg":      "message",
	"os":       "operating system",
	"perm":     "permission",
	"perms":    "permissions",
	"pg":       "postgresql",
	"postgres": "postgresql",
	"prod":     "production",
	"pw":       "password",
	"pwd":      "password",
	"repo":     "repository",
	"req":      "request",
	"resp":     "response",
	"ssl":      "secure sockets layer certificate",
	"sso":      "single sign on",
	"svc":      "service",
	"tls":      "transport layer security certificate",
	"ui":       "user interface",
	"vm":       "virtual machine",
	"vpn":      "virtual private network",
}

var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "all": true,
	"also": true, "and": true, "any": true, "are": true, "because": true,
	"been": true, "before": true, "being": true, "between": true, "both": true,
	"but": true, "can": true, "could": true, "did": true, "does": true,
	"doing": true, "down": true, "during": true, "each": true, "few": true,
	"for": true, "from": true, "further": true, "had": true, "has": true,
	"have": true, "having": true, "her": true, "here": true, "hers": true,
	"him": true, "his": true, "how": true, "into": true, "its": true,
	"itself": true, "just": true, "more": true, "most": true, "much": true,
	"must": true, "myself": true, "nor": true, "not": true, "now": true,
	"off": true, "once": true, "only": true, "other": true, "our": true,
	"ours": true, "out": true, "over": true, "own": true, "same": true,
	"she": true, "should": true, "some": true, "such": true, "than": true,
	"that": true, "the": true, "their": true, "theirs": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "too": true, "under": true, "until": true,
	"very": true, "was": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "who": true, "whom": true,
	"why": true, "will": true, "with": true, "would": true, "you": true,
	"your": true, "yours": true, "yourself": true,
}

// nuisanceWords are common in support queries but say little about which
// article answers them.
var nuisanceWords = map[string]bool{
	"error":    true,
	"errors":   true,
	"issue":    true,
	"issues":   true,
	"fix":      true,
	"fixing":   true,
	"problem":  true,
	"problems": true,
	"help":     true,
	"please":   true,
	"unable":   true,
	"cannot":   true,
	"get":      true,
	"getting":  true,
}
