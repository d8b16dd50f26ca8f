/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dispatcher

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var errRegisterMetrics = errors.New("registering dispatcher metrics")

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vmagent",
			Name:      "requests_total",
			Help:      "Requests received on the control channel, by family, operation and outcome.",
		}, []string{"family", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vmagent",
			Name:      "request_duration_seconds",
			Help:      "Time spent handling a request, hypervisor call included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"family", "operation"}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(err, errRegisterMetrics)
		}
	}

	return m, nil
}
