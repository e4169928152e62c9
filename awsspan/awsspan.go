// Package awsspan provides span-builder factories for calls to AWS services,
// attaching the semantic-convention attributes each service expects. It is a
// pure descriptor catalog: no AWS SDK types are involved, so it works with
// any client. Spans are named "{Service}.{Method}".
package awsspan

import (
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/amp-labs/amp-otel/attrs"
	"github.com/amp-labs/amp-otel/optional"
	"github.com/amp-labs/amp-otel/spans"
)

// MessagingKind is a well-known messaging.operation value.
type MessagingKind string

const (
	MessagingCreate  MessagingKind = "create"
	MessagingProcess MessagingKind = "process"
	MessagingReceive MessagingKind = "receive"
	MessagingSend    MessagingKind = "send"
	MessagingSettle  MessagingKind = "settle"

	// MessagingControl covers management operations over messaging
	// resources (create queue, set attributes, ...).
	MessagingControl MessagingKind = "control"
)

// builder maps a messaging kind to the span kind it implies.
func (k MessagingKind) builder(name string) *spans.Builder {
	switch k {
	case MessagingSend, MessagingCreate:
		return spans.Producer(name)
	case MessagingReceive, MessagingProcess, MessagingSettle:
		return spans.Consumer(name)
	default:
		return spans.Client(name)
	}
}

// DynamoDB describes a span for a DynamoDB call. Table names are optional;
// the first one doubles as the db.name attribute.
func DynamoDB(method string, tables ...string) *spans.Builder {
	first := optional.None[string]()
	if len(tables) > 0 {
		first = optional.Some(tables[0])
	}

	return spans.Client("DynamoDB." + method).
		Attributes(attrs.Collect(
			attrs.String(string(semconv.DBSystemKey), "dynamodb"),
			attrs.String(string(semconv.DBOperationKey), method),
			attrs.Opt(string(semconv.DBNameKey), first),
			attrs.Strings("aws.dynamodb.table_names", tables),
		)...)
}

// S3 describes a span for an S3 call. An empty bucket is omitted from the
// attributes, for global operations like ListBuckets.
func S3(method, bucket string) *spans.Builder {
	return spans.Client("S3."+method).
		Attributes(attrs.Collect(
			attrs.String(string(semconv.RPCSystemKey), "aws-api"),
			attrs.String(string(semconv.RPCServiceKey), "S3"),
			attrs.String(string(semconv.RPCMethodKey), method),
			attrs.Opt("aws.s3.bucket", nonEmpty(bucket)),
		)...)
}

// SQS describes a span for an SQS call. The queue may be a plain name or a
// full queue URL; URLs keep the last path segment as the destination name
// and are also recorded verbatim.
func SQS(kind MessagingKind, method, queue string) *spans.Builder {
	group := []attribute.KeyValue{
		semconv.MessagingSystemKey.String("aws_sqs"),
		semconv.MessagingOperationKey.String(string(kind)),
	}

	if queue != "" {
		name, isURL := queueName(queue)
		group = append(group, semconv.MessagingDestinationKey.String(name))

		if isURL {
			group = append(group, attribute.String("aws.sqs.queue.url", queue))
		}
	}

	return kind.builder("SQS." + method).Attributes(group...)
}

// SQSSend describes a span for sending a message to a queue.
func SQSSend(queue string) *spans.Builder {
	return SQS(MessagingSend, "SendMessage", queue)
}

// SQSReceive describes a span for a pull-based receive from a queue.
func SQSReceive(queue string) *spans.Builder {
	return SQS(MessagingReceive, "ReceiveMessage", queue)
}

// SNS describes a span for an SNS call. An empty topic ARN is omitted.
func SNS(kind MessagingKind, method, topicARN string) *spans.Builder {
	return kind.builder("SNS." + method).
		Attributes(attrs.Collect(
			attrs.String(string(semconv.MessagingSystemKey), "aws_sns"),
			attrs.String(string(semconv.MessagingOperationKey), string(kind)),
			attrs.Opt(string(semconv.MessagingDestinationKey), nonEmpty(topicARN)),
		)...)
}

// SNSPublish describes a span for publishing to a topic.
func SNSPublish(topicARN string) *spans.Builder {
	return SNS(MessagingSend, "Publish", topicARN)
}

func nonEmpty(s string) optional.Value[string] {
	if s == "" {
		return optional.None[string]()
	}

	return optional.Some(s)
}

// queueName extracts the queue name from a queue URL, or returns the input
// unchanged when it is not a URL.
func queueName(queue string) (string, bool) {
	parsed, err := url.Parse(queue)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return queue, false
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	return segments[len(segments)-1], true
}
