// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metric

import (
	"io"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// prometheusName converts "/sigctl/wait/retries" to "sigctl_wait_retries".
func prometheusName(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "/"), "/", "_")
}

// MetricFamilies groups the current snapshot into Prometheus metric families.
func MetricFamilies() []*dto.MetricFamily {
	var (
		families []*dto.MetricFamily
		cur      *dto.MetricFamily
	)
	for _, s := range Snapshot() {
		name := prometheusName(s.Name)
		if cur == nil || cur.GetName() != name {
			typ := dto.MetricType_GAUGE
			if s.Cumulative {
				typ = dto.MetricType_COUNTER
			}
			cur = &dto.MetricFamily{
				Name: proto.String(name),
				Help: proto.String(s.Description),
				Type: typ.Enum(),
			}
			families = append(families, cur)
		}

		m := &dto.Metric{}
		for i, f := range s.Fields {
			m.Label = append(m.Label, &dto.LabelPair{
				Name:  proto.String(f.name),
				Value: proto.String(s.FieldValues[i]),
			})
		}
		if s.Cumulative {
			m.Counter = &dto.Counter{Value: proto.Float64(float64(s.Value))}
		} else {
			m.Gauge = &dto.Gauge{Value: proto.Float64(float64(s.Value))}
		}
		cur.Metric = append(cur.Metric, m)
	}
	return families
}

// WritePrometheus writes all registered metrics to w in the Prometheus text
// exposition format.
func WritePrometheus(w io.Writer) error {
	for _, mf := range MetricFamilies() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
