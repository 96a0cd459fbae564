package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[IssueUserSigMessage]       = (*IssueUserSigCommand)(nil)
	_ gocmd.Commander[IssuePrivateMapKeyMessage] = (*IssuePrivateMapKeyCommand)(nil)
)
