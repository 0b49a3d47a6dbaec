package connection

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/de-tools/report-atlas/pkg/models/domain"
)

// DBInstanceDescriber is the subset of the RDS client used for endpoint discovery.
type DBInstanceDescriber interface {
	DescribeDBInstances(
		ctx context.Context,
		params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options),
	) (*rds.DescribeDBInstancesOutput, error)
}

// ResolveRDSEndpoint fills Host and Port from the RDS instance named in
// settings.RDSInstance. Settings without an instance are returned unchanged.
func ResolveRDSEndpoint(ctx context.Context, api DBInstanceDescriber, settings Settings) (Settings, error) {
	if settings.RDSInstance == "" {
		return settings, nil
	}

	out, err := api.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(settings.RDSInstance),
	})
	if err != nil {
		return settings, &domain.ConnectionError{Driver: settings.Driver, Err: fmt.Errorf("describe rds instance %s: %w", settings.RDSInstance, err)}
	}
	if len(out.DBInstances) == 0 || out.DBInstances[0].Endpoint == nil {
		return settings, &domain.ConnectionError{Driver: settings.Driver, Err: fmt.Errorf("rds instance %s has no endpoint", settings.RDSInstance)}
	}

	endpoint := out.DBInstances[0].Endpoint
	settings.Host = aws.ToString(endpoint.Address)
	if endpoint.Port != nil {
		settings.Port = int(aws.ToInt32(endpoint.Port))
	}
	return settings, nil
}
