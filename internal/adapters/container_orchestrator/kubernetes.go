package container_orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"

	"github.com/chainguard-dev/clog"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/selection"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

var _ ports.ContainerOrchestrator = (*Kubernetes)(nil)

// RouteGVR identifies OpenShift routes, which have no typed client in client-go.
var RouteGVR = schema.GroupVersionResource{Group: "route.openshift.io", Version: "v1", Resource: "routes"}

// Config maps the cluster manages itself and recreates on deletion.
var managedConfigMaps = []string{"kube-root-ca.crt", "openshift-service-ca.crt"}

// Kubernetes represents a client for interacting with Kubernetes
type Kubernetes struct {
	clientSet     kubernetes.Interface
	dynamicClient dynamic.Interface
	namespace     string
	pollInterval  time.Duration
	cleanTimeout  time.Duration
}

func ProvideKubernetes(settings *domain.Settings) (*Kubernetes, error) {
	// Create the config from the kubeConfig file
	kubeConfig, err := clientcmd.BuildConfigFromFlags("", settings.KubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes config: %w", err)
	}

	clientSet, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	namespace := settings.Namespace
	if namespace == "" {
		namespace, err = namespaceFromKubeconfig(settings.KubeconfigPath)
		if err != nil {
			return nil, err
		}
	}

	return NewKubernetes(clientSet, dynamicClient, namespace, settings), nil
}

// NewKubernetes creates a Kubernetes adapter from pre-configured clients.
// This is useful for testing with fake clients.
func NewKubernetes(
	clientSet kubernetes.Interface,
	dynamicClient dynamic.Interface,
	namespace string,
	settings *domain.Settings,
) *Kubernetes {
	return &Kubernetes{
		clientSet:     clientSet,
		dynamicClient: dynamicClient,
		namespace:     namespace,
		pollInterval:  settings.PollInterval,
		cleanTimeout:  settings.DeployTimeout,
	}
}

// Namespace returns the namespace all operations are scoped to.
func (k *Kubernetes) Namespace() string {
	return k.namespace
}

func namespaceFromKubeconfig(kubeconfigPath string) (string, error) {
	rules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfigPath}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{})
	namespace, _, err := clientConfig.Namespace()
	if err != nil {
		return "", fmt.Errorf("failed to read namespace from kubeconfig %s: %w", kubeconfigPath, err)
	}
	return namespace, nil
}

// DesiredReplicas reads spec.replicas of the named deployment. A deployment
// without an explicit replica count runs one pod.
func (k *Kubernetes) DesiredReplicas(ctx context.Context, workloadName string) (int32, error) {
	deployment, err := k.clientSet.AppsV1().Deployments(k.namespace).Get(ctx, workloadName, metav1.GetOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to get deployment %s/%s: %w", k.namespace, workloadName, err)
	}
	if deployment.Spec.Replicas == nil {
		return 1, nil
	}
	return *deployment.Spec.Replicas, nil
}

// CountReadyPods counts running pods matching the selector whose Ready
// condition is true. Pods being deleted are not counted.
func (k *Kubernetes) CountReadyPods(ctx context.Context, labelSelector string) (int, error) {
	pods, err := k.clientSet.CoreV1().Pods(k.namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return 0, fmt.Errorf("failed to list pods matching %s: %w", labelSelector, err)
	}

	ready := 0
	for i := range pods.Items {
		if isPodReady(&pods.Items[i]) {
			ready++
		}
	}
	return ready, nil
}

func isPodReady(pod *corev1.Pod) bool {
	if pod.DeletionTimestamp != nil || pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady {
			return condition.Status == corev1.ConditionTrue
		}
	}
	return false
}

// RouteHost returns spec.host of the route named after the workload, falling
// back to the first host rule of an ingress of the same name on clusters
// without the route API.
func (k *Kubernetes) RouteHost(ctx context.Context, name string) (string, error) {
	route, err := k.dynamicClient.Resource(RouteGVR).Namespace(k.namespace).Get(ctx, name, metav1.GetOptions{})
	switch {
	case err == nil:
		host, _, err := unstructured.NestedString(route.Object, "spec", "host")
		if err != nil {
			return "", fmt.Errorf("failed to read host of route %s: %w", name, err)
		}
		if host == "" {
			return "", fmt.Errorf("route %s/%s has no host", k.namespace, name)
		}
		return host, nil
	case apierrors.IsNotFound(err) || meta.IsNoMatchError(err):
		return k.ingressHost(ctx, name)
	default:
		return "", fmt.Errorf("failed to get route %s/%s: %w", k.namespace, name, err)
	}
}

func (k *Kubernetes) ingressHost(ctx context.Context, name string) (string, error) {
	ingress, err := k.clientSet.NetworkingV1().Ingresses(k.namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return "", fmt.Errorf("no route or ingress named %s in namespace %s", name, k.namespace)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get ingress %s/%s: %w", k.namespace, name, err)
	}
	for _, rule := range ingress.Spec.Rules {
		if rule.Host != "" {
			return rule.Host, nil
		}
	}
	return "", fmt.Errorf("ingress %s/%s has no host rule", k.namespace, name)
}

// CleanNamespace deletes workloads, services, configuration, storage claims
// and Helm release records from the namespace, then waits for the pods to
// drain. Objects carrying any of keepLabels are left alone.
func (k *Kubernetes) CleanNamespace(ctx context.Context, keepLabels []string) error {
	log := clog.FromContext(ctx).With("namespace", k.namespace)

	selector, err := keepSelector(keepLabels)
	if err != nil {
		return err
	}
	listOptions := metav1.ListOptions{LabelSelector: selector.String()}

	deleted := 0
	for _, target := range k.cleanTargets() {
		objects, err := target.list(ctx, listOptions)
		if err != nil {
			if apierrors.IsNotFound(err) || meta.IsNoMatchError(err) {
				log.Debug("resource type not served, skipping", "kind", target.kind)
				continue
			}
			return fmt.Errorf("failed to list %s in %s: %w", target.kind, k.namespace, err)
		}
		for _, object := range objects {
			if object.GetDeletionTimestamp() != nil {
				continue
			}
			err := target.delete(ctx, object.GetName())
			if err != nil && !apierrors.IsNotFound(err) {
				return fmt.Errorf("failed to delete %s %s/%s: %w", target.kind, k.namespace, object.GetName(), err)
			}
			deleted++
		}
	}
	log.Info("namespace cleaned", "deleted", deleted)

	return k.waitForPodsGone(ctx, listOptions)
}

// waitForPodsGone treats list errors as "not gone yet". The last one is
// reported with the timeout so a persistent failure is not hidden.
func (k *Kubernetes) waitForPodsGone(ctx context.Context, listOptions metav1.ListOptions) error {
	log := clog.FromContext(ctx).With("namespace", k.namespace)
	var listErr error
	err := wait.PollUntilContextTimeout(ctx, k.pollInterval, k.cleanTimeout, true,
		func(pollCtx context.Context) (bool, error) {
			pods, err := k.clientSet.CoreV1().Pods(k.namespace).List(pollCtx, listOptions)
			if err != nil {
				log.Warn("failed to list pods", "error", err)
				listErr = err
				return false, nil
			}
			listErr = nil
			return len(pods.Items) == 0, nil
		})
	if err != nil {
		return fmt.Errorf("waiting for pods in %s to terminate: %w", k.namespace, errors.Join(err, listErr))
	}
	return nil
}

func keepSelector(keepLabels []string) (labels.Selector, error) {
	selector := labels.NewSelector()
	for _, label := range keepLabels {
		key, value, found := strings.Cut(label, "=")
		if !found {
			return nil, fmt.Errorf("keep label '%s' must be key=value", label)
		}
		requirement, err := labels.NewRequirement(key, selection.NotEquals, []string{value})
		if err != nil {
			return nil, fmt.Errorf("invalid keep label '%s': %w", label, err)
		}
		selector = selector.Add(*requirement)
	}
	return selector, nil
}

type cleanTarget struct {
	kind   string
	list   func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error)
	delete func(ctx context.Context, name string) error
}

func (k *Kubernetes) cleanTargets() []cleanTarget {
	ns := k.namespace
	background := metav1.DeletePropagationBackground
	deleteOptions := metav1.DeleteOptions{PropagationPolicy: &background}
	apps := k.clientSet.AppsV1()
	core := k.clientSet.CoreV1()

	return []cleanTarget{
		{
			kind: "routes",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := k.dynamicClient.Resource(RouteGVR).Namespace(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				return objectsOf(list.Items), nil
			},
			delete: func(ctx context.Context, name string) error {
				return k.dynamicClient.Resource(RouteGVR).Namespace(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			kind: "ingresses",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := k.clientSet.NetworkingV1().Ingresses(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				return objectsOf(list.Items), nil
			},
			delete: func(ctx context.Context, name string) error {
				return k.clientSet.NetworkingV1().Ingresses(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			kind: "deployments",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := apps.Deployments(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				return objectsOf(list.Items), nil
			},
			delete: func(ctx context.Context, name string) error {
				return apps.Deployments(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			kind: "statefulsets",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := apps.StatefulSets(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				return objectsOf(list.Items), nil
			},
			delete: func(ctx context.Context, name string) error {
				return apps.StatefulSets(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			kind: "services",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := core.Services(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				return objectsOf(list.Items), nil
			},
			delete: func(ctx context.Context, name string) error {
				return core.Services(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			kind: "configmaps",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := core.ConfigMaps(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				var objects []metav1.Object
				for i := range list.Items {
					if !isManagedConfigMap(list.Items[i].Name) {
						objects = append(objects, &list.Items[i])
					}
				}
				return objects, nil
			},
			delete: func(ctx context.Context, name string) error {
				return core.ConfigMaps(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			// Helm stores release records as secrets, so this also forgets releases.
			kind: "secrets",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := core.Secrets(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				var objects []metav1.Object
				for i := range list.Items {
					if !isServiceAccountSecret(&list.Items[i]) {
						objects = append(objects, &list.Items[i])
					}
				}
				return objects, nil
			},
			delete: func(ctx context.Context, name string) error {
				return core.Secrets(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			kind: "persistentvolumeclaims",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := core.PersistentVolumeClaims(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				return objectsOf(list.Items), nil
			},
			delete: func(ctx context.Context, name string) error {
				return core.PersistentVolumeClaims(ns).Delete(ctx, name, deleteOptions)
			},
		},
		{
			kind: "pods",
			list: func(ctx context.Context, opts metav1.ListOptions) ([]metav1.Object, error) {
				list, err := core.Pods(ns).List(ctx, opts)
				if err != nil {
					return nil, err
				}
				return objectsOf(list.Items), nil
			},
			delete: func(ctx context.Context, name string) error {
				return core.Pods(ns).Delete(ctx, name, deleteOptions)
			},
		},
	}
}

func objectsOf[T any, PT interface {
	*T
	metav1.Object
}](items []T) []metav1.Object {
	objects := make([]metav1.Object, 0, len(items))
	for i := range items {
		objects = append(objects, PT(&items[i]))
	}
	return objects
}

func isManagedConfigMap(name string) bool {
	return slices.Contains(managedConfigMaps, name)
}

func isServiceAccountSecret(secret *corev1.Secret) bool {
	if secret.Type == corev1.SecretTypeServiceAccountToken {
		return true
	}
	_, ok := secret.Annotations[corev1.ServiceAccountNameKey]
	return ok
}
