package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	PruneService *PruneProduceService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	pruneService := InitPruneProduceService(channel)
	if pruneService == nil {
		panic("Failed to initialize Prune produce service")
	}

	produceInstance = &Produce{
		PruneService: pruneService,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
