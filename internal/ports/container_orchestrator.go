package ports

import "context"

// ReplicaReader reads the desired replica count of a deployed workload.
type ReplicaReader interface {
	DesiredReplicas(ctx context.Context, workloadName string) (int32, error)
}

// PodReadinessCounter counts pods matching a label selector that report ready.
type PodReadinessCounter interface {
	CountReadyPods(ctx context.Context, labelSelector string) (int, error)
}

// RouteResolver looks up the externally routable host of a workload.
type RouteResolver interface {
	RouteHost(ctx context.Context, name string) (string, error)
}

// NamespaceCleaner removes all test resources from the current namespace,
// keeping objects that carry any of the given key=value labels.
type NamespaceCleaner interface {
	CleanNamespace(ctx context.Context, keepLabels []string) error
	// Namespace is the namespace operations are scoped to, which may come
	// from the kubeconfig rather than the settings.
	Namespace() string
}

// ContainerOrchestrator is the full set of cluster capabilities the
// provisioning flow needs.
type ContainerOrchestrator interface {
	ReplicaReader
	PodReadinessCounter
	RouteResolver
	NamespaceCleaner
}
