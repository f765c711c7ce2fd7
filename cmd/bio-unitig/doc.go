/*
Command bio-unitig emits the unitigs of a pangenome variation graph:
maximal linear chains of degree-1 nodes, optionally extended with a
seeded random walk to a target length.

Sample usage:

	bio-unitig -i graph.gfa -unitig-to 1000 > out.fa
*/
package main
