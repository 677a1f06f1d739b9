package metrics

import pkgif "github.com/dep2p/go-rtps/pkg/interfaces"

// NopReporter 丢弃所有指标
type NopReporter struct{}

var _ pkgif.Reporter = NopReporter{}

func (NopReporter) DatagramSent(string)     {}
func (NopReporter) DatagramReceived(string) {}
func (NopReporter) DecodeFailure(string)    {}
func (NopReporter) SendFailure()            {}
func (NopReporter) MessagesForwarded(int)   {}
func (NopReporter) MessagesDropped(int)     {}
func (NopReporter) MessagesDelivered(int)   {}
func (NopReporter) PeersKnown(int)          {}
func (NopReporter) RegistryCleared()        {}
