package collection

import "go.uber.org/zap"

// warnPersist logs a persistence failure at Warn level. The write engine
// calls this and still returns the error to the caller, but A-D have
// already been mutated: the failure is "volatile write accepted", not
// rolled back.
func (c *Collection) warnPersist(op string, ext ExternalId, err error) {
	c.logger.Warn("persistence call failed, write applied in memory only",
		zap.String("op", op),
		zap.String("id", ext.String()),
		zap.Error(err),
	)
}
