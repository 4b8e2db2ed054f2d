// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"league-predictor/logger"
)

// ConnectionPublisher receives the open connection count after every change.
type ConnectionPublisher interface {
	PublishConnections(count int)
}

// CloudWatchPublisher pushes connection counts to CloudWatch.
type CloudWatchPublisher struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	service   string
}

// NewCloudWatchPublisher builds a publisher from the default AWS credential chain.
func NewCloudWatchPublisher(namespace, service string) (*CloudWatchPublisher, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return &CloudWatchPublisher{
		client:    cloudwatch.New(sess),
		namespace: namespace,
		service:   service,
	}, nil
}

// PublishConnections pushes the current WebSocket connection count.
func (p *CloudWatchPublisher) PublishConnections(count int) {
	p.putMetric("WidgetConnections", float64(count), cloudwatch.StandardUnitCount)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (p *CloudWatchPublisher) putMetric(metricName string, value float64, unit string) {
	_, err := p.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(p.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("Service"),
						Value: aws.String(p.service),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
