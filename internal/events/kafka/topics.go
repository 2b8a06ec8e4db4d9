package kafka

// Topic names for wallet domain events.
const (
	TopicAccountCreated     = "wallet.accounts.created"
	TopicTransferCompleted  = "wallet.transactions.transfer"
	TopicDepositCompleted   = "wallet.transactions.deposit"
	TopicTransactionFailed  = "wallet.transactions.failed"
)

// AllTopics returns every topic this service produces to.
func AllTopics() []string {
	return []string{
		TopicAccountCreated,
		TopicTransferCompleted,
		TopicDepositCompleted,
		TopicTransactionFailed,
	}
}
