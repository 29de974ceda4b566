package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameMutations            = "mutations"
	NameIdentifierCollisions = "identifier_collisions"
	LabelCollection          = "collection"
	LabelOperation           = "operation"
)

const (
	OperationCreate     = "create"
	OperationReplace    = "replace"
	OperationPatch      = "patch"
	OperationSoftDelete = "soft_delete"
	OperationRestore    = "restore"
	OperationHardDelete = "hard_delete"
	OperationImport     = "import"
)

var Mutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameMutations,
		Help:      "Committed record mutations",
		Namespace: Namespace,
	},
	[]string{LabelCollection, LabelOperation},
)

var IdentifierCollisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameIdentifierCollisions,
		Help:      "Public id collisions detected on record creation",
		Namespace: Namespace,
	},
	[]string{LabelCollection},
)
